package metrics

import (
	"encoding/json"
	"math"
)

// Readability holds the heuristic readability scores for a text
type Readability struct {
	FleschReadingEase  float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`
}

// Lexical holds lexical-diversity measures
type Lexical struct {
	TypeTokenRatio float64 `json:"type_token_ratio"`
}

// Analysis is the full metrics block for one text
type Analysis struct {
	Counts      BasicCounts  `json:"counts"`
	Readability Readability  `json:"readability"`
	Lexical     Lexical      `json:"lexical"`
	TopBigrams  []NgramCount `json:"top_bigrams"`
	TopTrigrams []NgramCount `json:"top_trigrams"`
}

// Delta holds output-minus-input differences for the comparable metrics
type Delta struct {
	Chars              int     `json:"chars"`
	Words              int     `json:"words"`
	Sentences          int     `json:"sentences"`
	UniqueWords        int     `json:"unique_words"`
	FleschReadingEase  float64 `json:"flesch_reading_ease"`
	FleschKincaidGrade float64 `json:"flesch_kincaid_grade"`
	TypeTokenRatio     float64 `json:"type_token_ratio"`
}

// Comparison is the persisted input/output/delta metrics block
type Comparison struct {
	Input  Analysis `json:"input"`
	Output Analysis `json:"output"`
	Delta  Delta    `json:"delta"`
}

const topK = 10

// Analyze computes the full metrics block for a text
func Analyze(text string) Analysis {
	return Analysis{
		Counts: CountBasic(text),
		Readability: Readability{
			FleschReadingEase:  round(FleschReadingEase(text), 3),
			FleschKincaidGrade: round(FleschKincaidGrade(text), 3),
		},
		Lexical: Lexical{
			TypeTokenRatio: round(TypeTokenRatio(text), 4),
		},
		TopBigrams:  TopNgrams(text, 2, topK),
		TopTrigrams: TopNgrams(text, 3, topK),
	}
}

// AnalyzePair analyzes both texts and derives the delta block
func AnalyzePair(inputText, outputText string) Comparison {
	in := Analyze(inputText)
	out := Analyze(outputText)

	return Comparison{
		Input:  in,
		Output: out,
		Delta: Delta{
			Chars:              out.Counts.Chars - in.Counts.Chars,
			Words:              out.Counts.Words - in.Counts.Words,
			Sentences:          out.Counts.Sentences - in.Counts.Sentences,
			UniqueWords:        out.Counts.UniqueWords - in.Counts.UniqueWords,
			FleschReadingEase:  round(out.Readability.FleschReadingEase-in.Readability.FleschReadingEase, 3),
			FleschKincaidGrade: round(out.Readability.FleschKincaidGrade-in.Readability.FleschKincaidGrade, 3),
			TypeTokenRatio:     round(out.Lexical.TypeTokenRatio-in.Lexical.TypeTokenRatio, 4),
		},
	}
}

// Report renders a concise JSON report of a comparison, for CLI output
func Report(c Comparison) string {
	report := map[string]any{
		"input_counts":       c.Input.Counts,
		"output_counts":      c.Output.Counts,
		"input_readability":  c.Input.Readability,
		"output_readability": c.Output.Readability,
		"input_lexical":      c.Input.Lexical,
		"output_lexical":     c.Output.Lexical,
		"delta":              c.Delta,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func round(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
