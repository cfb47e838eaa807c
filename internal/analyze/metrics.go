package analyze

import (
	"math"
	"strings"
	"unicode"
)

// Metrics summarizes how hard the summary worked
type Metrics struct {
	InputWordCount   int     `json:"input_word_count"`
	SummaryWordCount int     `json:"summary_word_count"`
	CompressionRate  float64 `json:"compression_rate_percent"`
	Readability      float64 `json:"readability_flesch"`
}

// ComputeMetrics compares the summary against the original text
func ComputeMetrics(original, summary string) Metrics {
	inputWords := len(strings.Fields(original))
	summaryWords := len(strings.Fields(summary))

	m := Metrics{
		InputWordCount:   inputWords,
		SummaryWordCount: summaryWords,
	}

	if inputWords > 0 {
		rate := 100 - (float64(summaryWords)/float64(inputWords))*100
		m.CompressionRate = math.Round(rate*100) / 100
	}
	if summary != "" {
		m.Readability = math.Round(fleschReadingEase(summary)*100) / 100
	}

	return m
}

// fleschReadingEase computes the Flesch reading-ease score:
// 206.835 - 1.015*(words/sentences) - 84.6*(syllables/words)
func fleschReadingEase(text string) float64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	sentences := len(splitSentences(text))
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, word := range words {
		syllables += countSyllables(word)
	}

	return 206.835 - 1.015*(float64(len(words))/float64(sentences)) - 84.6*(float64(syllables)/float64(len(words)))
}

// countSyllables estimates syllables as vowel groups, discounting a silent
// trailing e. Every word counts as at least one syllable.
func countSyllables(word string) int {
	word = strings.ToLower(strings.TrimFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}))
	if word == "" {
		return 1
	}

	isVowel := func(r rune) bool {
		return strings.ContainsRune("aeiouy", r)
	}

	count := 0
	prevVowel := false
	for _, r := range word {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count == 0 {
		count = 1
	}
	return count
}

// splitSentences splits text after terminal punctuation followed by space
func splitSentences(text string) []string {
	var (
		sentences []string
		current   strings.Builder
	)

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i == len(runes)-1 || unicode.IsSpace(runes[i+1]) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
			}
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}
