package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple sentence",
			text: "This is a test",
			want: []string{"this", "is", "a", "test"},
		},
		{
			name: "internal apostrophe kept",
			text: "don't stop",
			want: []string{"don't", "stop"},
		},
		{
			name: "punctuation and digits ignored",
			text: "alpha, beta-42 gamma!",
			want: []string{"alpha", "beta", "gamma"},
		},
		{
			name: "empty text",
			text: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TokenizeWords(tt.text))
		})
	}
}

func TestTokenizeSentences(t *testing.T) {
	text := "This is a simple sentence. This is another one! Is it? Yes."
	sents := TokenizeSentences(text)
	require.Len(t, sents, 4)
	assert.Equal(t, "This is a simple sentence", sents[0])

	assert.Empty(t, TokenizeSentences("   "))
}

func TestCountSyllables(t *testing.T) {
	tests := []struct {
		word string
		min  int
		max  int
	}{
		{"", 0, 0},
		{"a", 1, 1},
		{"cat", 1, 1},
		{"language", 2, 3},
		{"make", 1, 1}, // trailing silent e collapsed
		{"the", 1, 1},
		{"readable", 2, 3},
		{"rhythm", 1, 2}, // y counts as a vowel
		{"12345", 0, 0},  // nothing left after stripping non-alpha
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got := CountSyllables(tt.word)
			assert.GreaterOrEqual(t, got, tt.min)
			assert.LessOrEqual(t, got, tt.max)
		})
	}
}

func TestCountBasic(t *testing.T) {
	text := "This is a simple sentence. This is another one!"
	counts := CountBasic(text)

	assert.Equal(t, len(text), counts.Chars)
	assert.Equal(t, 9, counts.Words)
	assert.Equal(t, 2, counts.Sentences)
	assert.Equal(t, 7, counts.UniqueWords)
}

func TestTypeTokenRatio(t *testing.T) {
	assert.Equal(t, 0.0, TypeTokenRatio(""))
	assert.Equal(t, 1.0, TypeTokenRatio("every word unique here"))

	ttr := TypeTokenRatio("word word word test test alpha beta beta gamma")
	assert.Greater(t, ttr, 0.0)
	assert.LessOrEqual(t, ttr, 1.0)
}

func TestReadabilityZeroGuards(t *testing.T) {
	assert.Equal(t, 0.0, FleschReadingEase(""))
	assert.Equal(t, 0.0, FleschKincaidGrade(""))

	// Words but no sentence terminator still yields no division by zero
	assert.NotPanics(t, func() {
		FleschReadingEase("no terminator here")
		FleschKincaidGrade("no terminator here")
	})
}

func TestReadabilityEasyText(t *testing.T) {
	text := "This is a short sentence. It is easy to read. "
	fre := FleschReadingEase(text)
	fk := FleschKincaidGrade(text)

	assert.Greater(t, fre, 50.0)
	assert.GreaterOrEqual(t, fk, -4.0)
	assert.Less(t, fk, 6.0)
}

func TestTopNgrams(t *testing.T) {
	text := "the quick fox the quick dog the quick fox"

	bigrams := TopNgrams(text, 2, 10)
	require.NotEmpty(t, bigrams)
	assert.Equal(t, "the quick", bigrams[0].Ngram)
	assert.Equal(t, 3, bigrams[0].Count)

	// Tie between "quick fox" (2) and later bigrams: first occurrence wins
	assert.Equal(t, "quick fox", bigrams[1].Ngram)
	assert.Equal(t, 2, bigrams[1].Count)
}

func TestTopNgramsEdgeCases(t *testing.T) {
	assert.Empty(t, TopNgrams("", 2, 10))
	assert.Empty(t, TopNgrams("one", 2, 10))

	// topK truncates
	text := "a b c d e f g h i j k l m n"
	grams := TopNgrams(text, 2, 5)
	assert.Len(t, grams, 5)
}
