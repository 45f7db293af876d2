package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmptyText(t *testing.T) {
	a := Analyze("")

	assert.Equal(t, 0, a.Counts.Chars)
	assert.Equal(t, 0, a.Counts.Words)
	assert.Equal(t, 0, a.Counts.Sentences)
	assert.Equal(t, 0.0, a.Readability.FleschReadingEase)
	assert.Equal(t, 0.0, a.Readability.FleschKincaidGrade)
	assert.Equal(t, 0.0, a.Lexical.TypeTokenRatio)
	assert.Empty(t, a.TopBigrams)
	assert.Empty(t, a.TopTrigrams)
}

func TestAnalyzePairDelta(t *testing.T) {
	input := "Short input."
	output := "This output text is quite a bit longer than the input was. It has two sentences."

	c := AnalyzePair(input, output)

	assert.Equal(t, c.Output.Counts.Chars-c.Input.Counts.Chars, c.Delta.Chars)
	assert.Equal(t, c.Output.Counts.Words-c.Input.Counts.Words, c.Delta.Words)
	assert.Equal(t, c.Output.Counts.Sentences-c.Input.Counts.Sentences, c.Delta.Sentences)
	assert.Positive(t, c.Delta.Words)
	assert.Positive(t, c.Delta.Chars)
}

func TestAnalyzePairBothEmpty(t *testing.T) {
	c := AnalyzePair("", "")

	assert.Equal(t, 0, c.Delta.Chars)
	assert.Equal(t, 0.0, c.Delta.FleschReadingEase)
	assert.Equal(t, 0.0, c.Delta.TypeTokenRatio)
}

func TestComparisonJSONShape(t *testing.T) {
	c := AnalyzePair("One sentence here. ", "Another one there. ")

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "input")
	assert.Contains(t, decoded, "output")
	assert.Contains(t, decoded, "delta")
}

func TestReport(t *testing.T) {
	c := AnalyzePair("alpha beta. ", "gamma delta epsilon. ")
	report := Report(c)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(report), &decoded))
	assert.Contains(t, decoded, "input_counts")
	assert.Contains(t, decoded, "output_counts")
	assert.Contains(t, decoded, "delta")
}
