// Package accuracy scores an OCR transcription against its ground truth.
//
// The score is derived from a word-level diff: the larger of the added and
// removed character counts is taken as the error, relative to the length of
// the expected text. Because the reference length is always the expected
// side, the metric is intentionally asymmetric.
package accuracy

import "unicode/utf8"

// Result is the outcome of scoring one expected/actual pair.
type Result struct {
	Value        float64   `json:"value"`
	Segments     []Segment `json:"segments"`
	TotalChars   int       `json:"total_chars"`
	AddedChars   int       `json:"added_chars"`
	RemovedChars int       `json:"removed_chars"`
}

// Score compares actual against expected, optionally stripping markup from
// both first. An empty expected or actual string scores 0, as does an expected
// string that normalizes to nothing.
func Score(expected, actual string, normalize bool) Result {
	exp, act := expected, actual
	if normalize {
		exp = Normalize(expected)
		act = Normalize(actual)
	}

	res := Result{
		Segments:   DiffWords(exp, act),
		TotalChars: utf8.RuneCountInString(exp),
	}
	for _, s := range res.Segments {
		switch s.Status {
		case StatusAdded:
			res.AddedChars += s.Len()
		case StatusRemoved:
			res.RemovedChars += s.Len()
		}
	}

	if expected == "" || actual == "" || res.TotalChars == 0 {
		return res
	}

	errorChars := max(res.AddedChars, res.RemovedChars)
	res.Value = max(0, 1-float64(errorChars)/float64(res.TotalChars))
	return res
}

// Accuracy returns only the scalar score of Score.
func Accuracy(expected, actual string, normalize bool) float64 {
	return Score(expected, actual, normalize).Value
}
