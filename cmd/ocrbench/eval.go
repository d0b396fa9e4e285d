package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"ocrbench/internal/accuracy"
	"ocrbench/internal/config"
	"ocrbench/internal/logging"
	"ocrbench/internal/provider"
	"ocrbench/internal/service"
)

// Manifest is an eval file listing the cases to score.
type Manifest struct {
	Normalize    *bool    `yaml:"normalize"`
	Models       []string `yaml:"models"`
	SystemPrompt string   `yaml:"system_prompt"`
	UserPrompt   string   `yaml:"user_prompt"`
	Temperature  float64  `yaml:"temperature"`
	BatchSize    int      `yaml:"batch_size"`
	Cases        []Case   `yaml:"cases"`
}

// Case is one ground truth with either a stored transcription or an image to
// send to the manifest's models. File paths are relative to the manifest.
type Case struct {
	Name         string `yaml:"name"`
	Expected     string `yaml:"expected"`
	ExpectedFile string `yaml:"expected_file"`
	Actual       string `yaml:"actual"`
	ActualFile   string `yaml:"actual_file"`
	ImageURL     string `yaml:"image_url"`
}

// CaseResult is the score of one transcription of a case.
type CaseResult struct {
	Case     string  `json:"case"`
	Provider string  `json:"provider,omitempty"`
	Model    string  `json:"model,omitempty"`
	Accuracy float64 `json:"accuracy"`
	Failed   bool    `json:"failed,omitempty"`
}

// ModelSummary averages the results of one model, or of the stored
// transcriptions when Model is empty.
type ModelSummary struct {
	Provider string  `json:"provider,omitempty"`
	Model    string  `json:"model,omitempty"`
	Runs     int     `json:"runs"`
	Average  float64 `json:"average"`
}

// EvalReport is the outcome of an eval run.
type EvalReport struct {
	Results []CaseResult   `json:"results"`
	Summary []ModelSummary `json:"summary"`
}

func evalCmd() *cobra.Command {
	var (
		manifestPath string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Score a set of cases listed in a YAML manifest",
		Long: `Eval scores every case in a manifest. A case with actual text is scored
directly; a case with an image_url is sent to each model in the manifest's
models list first, using the providers configured through OCRBENCH_ env vars.

Example manifest:
  normalize: true
  models: [gpt-4o, gemini-2.0-flash]
  user_prompt: Transcribe the page.
  cases:
    - name: receipt
      expected_file: receipt.txt
      image_url: https://example.com/receipt.png
    - name: stored
      expected: "Total 42"
      actual: "Total 4Z"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := loadManifest(manifestPath)
			if err != nil {
				return err
			}

			var ocr service.OCRService
			if m.needsOCR() {
				ocr, err = newOCRService()
				if err != nil {
					return err
				}
			}

			report, err := evaluate(cmd.Context(), m, ocr)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "config", "c", "", "path to the eval manifest")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("config")

	return cmd
}

// loadManifest parses the manifest and resolves every *_file field.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if len(m.Cases) == 0 {
		return nil, errors.New("manifest has no cases")
	}

	dir := filepath.Dir(path)
	for i := range m.Cases {
		c := &m.Cases[i]
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		if c.ExpectedFile != "" {
			if c.Expected, err = readText(filepath.Join(dir, c.ExpectedFile), os.Stdin); err != nil {
				return nil, fmt.Errorf("%s: reading expected_file: %w", c.Name, err)
			}
		}
		if c.ActualFile != "" {
			if c.Actual, err = readText(filepath.Join(dir, c.ActualFile), os.Stdin); err != nil {
				return nil, fmt.Errorf("%s: reading actual_file: %w", c.Name, err)
			}
		}
		if c.Actual == "" && c.ImageURL == "" {
			return nil, fmt.Errorf("%s: needs actual text or an image_url", c.Name)
		}
	}
	return &m, nil
}

func (m *Manifest) needsOCR() bool {
	for i := range m.Cases {
		if m.Cases[i].ImageURL != "" && m.Cases[i].Actual == "" {
			return true
		}
	}
	return false
}

func (m *Manifest) normalize() bool {
	return m.Normalize == nil || *m.Normalize
}

func newOCRService() (service.OCRService, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logging.Init(cfg.Log.Level, cfg.Log.Format)

	providers, catalog, err := provider.FromConfig(&cfg.Providers)
	if err != nil {
		return nil, err
	}
	return service.NewOCRService(providers, catalog, service.OCRConfig{
		MaxBatchSize: cfg.Batch.MaxSize,
		Delay:        cfg.Batch.Delay,
	}), nil
}

// evaluate scores every case. ocr may be nil when no case needs a model run.
func evaluate(ctx context.Context, m *Manifest, ocr service.OCRService) (*EvalReport, error) {
	normalize := m.normalize()
	report := &EvalReport{}

	for i := range m.Cases {
		c := &m.Cases[i]
		if c.Actual != "" {
			report.Results = append(report.Results, CaseResult{
				Case:     c.Name,
				Accuracy: accuracy.Accuracy(c.Expected, c.Actual, normalize),
			})
			continue
		}
		if ocr == nil {
			return nil, fmt.Errorf("%s: no OCR service for image case", c.Name)
		}

		out, err := ocr.Run(ctx, service.RunInput{
			ImageURL:     c.ImageURL,
			SystemPrompt: m.SystemPrompt,
			UserPrompt:   m.UserPrompt,
			Models:       m.Models,
			Temperature:  m.Temperature,
			BatchSize:    m.BatchSize,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.Name, err)
		}
		for _, r := range out.Results {
			res := CaseResult{Case: c.Name, Provider: r.Provider, Model: r.Model, Failed: r.Failed}
			if !r.Failed {
				res.Accuracy = accuracy.Accuracy(c.Expected, r.Text, normalize)
			}
			report.Results = append(report.Results, res)
		}
	}

	report.Summary = summarize(report.Results)
	return report, nil
}

// summarize averages results per model, best first.
func summarize(results []CaseResult) []ModelSummary {
	type key struct{ provider, model string }
	sums := map[key]*ModelSummary{}
	var order []key
	for _, r := range results {
		k := key{r.Provider, r.Model}
		s, ok := sums[k]
		if !ok {
			s = &ModelSummary{Provider: r.Provider, Model: r.Model}
			sums[k] = s
			order = append(order, k)
		}
		s.Runs++
		s.Average += r.Accuracy
	}

	summary := make([]ModelSummary, 0, len(order))
	for _, k := range order {
		s := sums[k]
		s.Average /= float64(s.Runs)
		summary = append(summary, *s)
	}
	sort.SliceStable(summary, func(i, j int) bool { return summary[i].Average > summary[j].Average })
	return summary
}

func printReport(w io.Writer, report *EvalReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tMODEL\tACCURACY")
	for _, r := range report.Results {
		acc := fmt.Sprintf("%.2f%%", r.Accuracy*100)
		if r.Failed {
			acc = "failed"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Case, modelLabel(r.Provider, r.Model), acc)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "MODEL\tRUNS\tAVERAGE")
	for _, s := range report.Summary {
		fmt.Fprintf(tw, "%s\t%d\t%.2f%%\n", modelLabel(s.Provider, s.Model), s.Runs, s.Average*100)
	}
	return tw.Flush()
}

func modelLabel(provider, model string) string {
	if model == "" {
		return "(stored)"
	}
	return provider + "/" + model
}
