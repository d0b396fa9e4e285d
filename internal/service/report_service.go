package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"ocrbench/internal/accuracy"
	"ocrbench/internal/domain"
	"ocrbench/internal/port"
)

// LeaderboardEntry is one scored result ranked against every other result of the area.
type LeaderboardEntry struct {
	Rank          int       `json:"rank"`
	ResultID      uuid.UUID `json:"result_id"`
	VersionID     uuid.UUID `json:"version_id"`
	VersionNumber int       `json:"version_number"`
	Provider      string    `json:"provider"`
	Model         string    `json:"model"`
	Accuracy      float64   `json:"accuracy"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
}

// ModelStat summarizes the accuracy of one provider/model pair within a version.
type ModelStat struct {
	Provider string  `json:"provider"`
	Model    string  `json:"model"`
	Count    int     `json:"count"`
	Average  float64 `json:"average"`
	StdDev   float64 `json:"std_dev"`
	Max      float64 `json:"max"`
}

// AccuracyBand is the spread of accuracies for one provider in one version.
type AccuracyBand struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TrendPoint is one version on the accuracy-over-versions chart.
type TrendPoint struct {
	Label         string                  `json:"label"`
	VersionID     uuid.UUID               `json:"version_id"`
	VersionNumber int                     `json:"version_number"`
	Providers     map[string]AccuracyBand `json:"providers"`
}

// VersionSummary is the headline accuracy of one version.
type VersionSummary struct {
	ID              uuid.UUID `json:"id"`
	VersionNumber   int       `json:"version_number"`
	ResultCount     int       `json:"result_count"`
	AverageAccuracy float64   `json:"average_accuracy"`
}

// Comparison contrasts two versions of one area.
type Comparison struct {
	Base   VersionSummary   `json:"base"`
	Target VersionSummary   `json:"target"`
	Delta  float64          `json:"delta"`
	Diff   *accuracy.Result `json:"diff,omitempty"`
}

// ReportService derives read-only accuracy reports from a test area's history.
// All accuracies are percentages.
type ReportService interface {
	Leaderboard(ctx context.Context, areaID uuid.UUID) ([]LeaderboardEntry, error)
	ModelStats(ctx context.Context, areaID, versionID uuid.UUID, normalize bool) ([]ModelStat, error)
	Trend(ctx context.Context, areaID uuid.UUID) ([]TrendPoint, error)
	Compare(ctx context.Context, areaID, baseID, targetID uuid.UUID, normalize bool) (*Comparison, error)
}

type reportService struct {
	repo port.TestAreaRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(repo port.TestAreaRepository) ReportService {
	return &reportService{repo: repo}
}

func (s *reportService) Leaderboard(ctx context.Context, areaID uuid.UUID) ([]LeaderboardEntry, error) {
	area, err := s.repo.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}

	entries := []LeaderboardEntry{}
	for _, v := range area.Versions {
		for _, r := range v.Results {
			if r.Provider == "" || r.Model == "" {
				continue
			}
			entries = append(entries, LeaderboardEntry{
				ResultID:      r.ID,
				VersionID:     v.ID,
				VersionNumber: v.VersionNumber,
				Provider:      r.Provider,
				Model:         r.Model,
				Accuracy:      r.Accuracy * 100,
				Text:          r.Text,
				CreatedAt:     r.CreatedAt,
			})
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Accuracy > entries[j].Accuracy })
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *reportService) ModelStats(ctx context.Context, areaID, versionID uuid.UUID, normalize bool) ([]ModelStat, error) {
	area, err := s.repo.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	version := area.Version(versionID)
	if version == nil {
		return nil, domain.ErrVersionNotFound
	}

	type group struct {
		provider, model string
		accuracies      []float64
	}
	var groups []*group
	byKey := map[string]*group{}
	for _, r := range version.Results {
		provider, model := orUnknown(r.Provider), orUnknown(r.Model)
		key := provider + "-" + model
		g, ok := byKey[key]
		if !ok {
			g = &group{provider: provider, model: model}
			byKey[key] = g
			groups = append(groups, g)
		}
		acc := 0.0
		if !r.Failed {
			acc = accuracy.Accuracy(area.GroundTruth, r.Text, normalize) * 100
		}
		g.accuracies = append(g.accuracies, acc)
	}

	stats := make([]ModelStat, 0, len(groups))
	for _, g := range groups {
		avg, _, maxAcc := spread(g.accuracies)
		var variance float64
		for _, a := range g.accuracies {
			variance += (a - avg) * (a - avg)
		}
		variance /= float64(len(g.accuracies))
		stats = append(stats, ModelStat{
			Provider: g.provider,
			Model:    g.model,
			Count:    len(g.accuracies),
			Average:  avg,
			StdDev:   math.Sqrt(variance),
			Max:      maxAcc,
		})
	}
	sort.SliceStable(stats, func(i, j int) bool { return stats[i].Average > stats[j].Average })
	return stats, nil
}

func (s *reportService) Trend(ctx context.Context, areaID uuid.UUID) ([]TrendPoint, error) {
	area, err := s.repo.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}

	points := make([]TrendPoint, 0, len(area.Versions))
	for i, v := range area.Versions {
		byProvider := map[string][]float64{}
		for _, r := range v.Results {
			if r.Provider == "" {
				continue
			}
			byProvider[r.Provider] = append(byProvider[r.Provider], r.Accuracy*100)
		}
		bands := make(map[string]AccuracyBand, len(byProvider))
		for p, accs := range byProvider {
			avg, lo, hi := spread(accs)
			bands[p] = AccuracyBand{Avg: avg, Min: lo, Max: hi}
		}
		points = append(points, TrendPoint{
			Label:         fmt.Sprintf("V%d", i+1),
			VersionID:     v.ID,
			VersionNumber: v.VersionNumber,
			Providers:     bands,
		})
	}
	return points, nil
}

func (s *reportService) Compare(ctx context.Context, areaID, baseID, targetID uuid.UUID, normalize bool) (*Comparison, error) {
	area, err := s.repo.GetByID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	base, target := area.Version(baseID), area.Version(targetID)
	if base == nil || target == nil {
		return nil, domain.ErrVersionNotFound
	}

	cmp := &Comparison{Base: summarize(base), Target: summarize(target)}
	cmp.Delta = cmp.Target.AverageAccuracy - cmp.Base.AverageAccuracy
	if len(base.Results) > 0 && len(target.Results) > 0 {
		diff := accuracy.Score(base.Results[0].Text, target.Results[0].Text, normalize)
		cmp.Diff = &diff
	}
	return cmp, nil
}

func summarize(v *domain.TestVersion) VersionSummary {
	sum := VersionSummary{ID: v.ID, VersionNumber: v.VersionNumber, ResultCount: len(v.Results)}
	if len(v.Results) == 0 {
		return sum
	}
	var total float64
	for _, r := range v.Results {
		total += r.Accuracy
	}
	sum.AverageAccuracy = total / float64(len(v.Results)) * 100
	return sum
}

// spread returns the mean, minimum and maximum of a non-empty slice.
func spread(values []float64) (avg, lo, hi float64) {
	lo, hi = values[0], values[0]
	var total float64
	for _, v := range values {
		total += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return total / float64(len(values)), lo, hi
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
