package metrics

import (
	"regexp"
	"sort"
	"strings"
)

var (
	wordRe     = regexp.MustCompile(`[A-Za-z]+(?:'[A-Za-z]+)?`)
	sentenceRe = regexp.MustCompile(`[.!?]+\s+`)
	nonAlphaRe = regexp.MustCompile(`[^a-z]`)
)

const vowels = "aeiouy"

// TokenizeWords returns all case-folded word tokens. A word is a maximal run
// of letters, optionally containing a single internal apostrophe.
func TokenizeWords(text string) []string {
	matches := wordRe.FindAllString(text, -1)
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		words = append(words, strings.ToLower(m))
	}
	return words
}

// TokenizeSentences splits text on runs of sentence punctuation followed by
// whitespace. A heuristic, not grammar-aware.
func TokenizeSentences(text string) []string {
	parts := sentenceRe.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// CountSyllables estimates the syllable count of a single word by counting
// contiguous vowel groups, collapsing a trailing silent 'e'. Any non-empty
// word counts as at least one syllable.
func CountSyllables(word string) int {
	w := strings.ToLower(word)
	if w == "" {
		return 0
	}
	w = nonAlphaRe.ReplaceAllString(w, "")
	if w == "" {
		return 0
	}

	count := 0
	prevIsVowel := false
	for _, ch := range w {
		isVowel := strings.ContainsRune(vowels, ch)
		if isVowel && !prevIsVowel {
			count++
		}
		prevIsVowel = isVowel
	}

	if strings.HasSuffix(w, "e") && count > 1 {
		count--
	}

	if count < 1 {
		count = 1
	}
	return count
}

// BasicCounts holds raw size counts for a text
type BasicCounts struct {
	Chars       int `json:"chars"`
	Words       int `json:"words"`
	Sentences   int `json:"sentences"`
	UniqueWords int `json:"unique_words"`
}

// CountBasic computes character, word, sentence and unique-word counts
func CountBasic(text string) BasicCounts {
	words := TokenizeWords(text)
	sentences := TokenizeSentences(text)

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}

	return BasicCounts{
		Chars:       len(text),
		Words:       len(words),
		Sentences:   len(sentences),
		UniqueWords: len(unique),
	}
}

// TypeTokenRatio is unique words over total words, 0 when there are no words
func TypeTokenRatio(text string) float64 {
	words := TokenizeWords(text)
	if len(words) == 0 {
		return 0
	}

	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	return float64(len(unique)) / float64(len(words))
}

// FleschReadingEase computes the Flesch Reading Ease score, 0 when the text
// has no words or no sentences
func FleschReadingEase(text string) float64 {
	words := TokenizeWords(text)
	sentences := TokenizeSentences(text)
	if len(words) == 0 || len(sentences) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}

	wordCount := float64(len(words))
	sentCount := float64(len(sentences))
	return 206.835 - 1.015*(wordCount/sentCount) - 84.6*(float64(syllables)/wordCount)
}

// FleschKincaidGrade computes the Flesch-Kincaid grade level, 0 when the text
// has no words or no sentences
func FleschKincaidGrade(text string) float64 {
	words := TokenizeWords(text)
	sentences := TokenizeSentences(text)
	if len(words) == 0 || len(sentences) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += CountSyllables(w)
	}

	wordCount := float64(len(words))
	sentCount := float64(len(sentences))
	return 0.39*(wordCount/sentCount) + 11.8*(float64(syllables)/wordCount) - 15.59
}

// NgramCount is one n-gram with its occurrence count
type NgramCount struct {
	Ngram string `json:"ngram"`
	Count int    `json:"count"`
}

// TopNgrams returns the topK most frequent contiguous word sequences of
// length n. Ties are broken by first occurrence in the text.
func TopNgrams(text string, n, topK int) []NgramCount {
	words := TokenizeWords(text)
	if len(words) < n || n <= 0 {
		return []NgramCount{}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := 0
	for i := 0; i+n <= len(words); i++ {
		gram := strings.Join(words[i:i+n], " ")
		if _, ok := counts[gram]; !ok {
			firstSeen[gram] = order
			order++
		}
		counts[gram]++
	}

	result := make([]NgramCount, 0, len(counts))
	for gram, count := range counts {
		result = append(result, NgramCount{Ngram: gram, Count: count})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return firstSeen[result[i].Ngram] < firstSeen[result[j].Ngram]
	})

	if len(result) > topK {
		result = result[:topK]
	}
	return result
}
