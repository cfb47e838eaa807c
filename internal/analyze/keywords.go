package analyze

import (
	"regexp"
	"sort"
	"strings"
)

var keywordRe = regexp.MustCompile(`\b\w{4,}\b`)

// Keywords returns the n most frequent words of four or more characters,
// joined with "; ". Ties are broken by first occurrence so the output is
// stable for a given text.
func Keywords(text string, n int) string {
	if n <= 0 {
		n = defaultKeywordCount
	}

	words := keywordRe.FindAllString(strings.ToLower(text), -1)

	type wordCount struct {
		word  string
		count int
		first int
	}

	counts := make(map[string]*wordCount)
	for i, word := range words {
		if wc, ok := counts[word]; ok {
			wc.count++
		} else {
			counts[word] = &wordCount{word: word, count: 1, first: i}
		}
	}

	ranked := make([]*wordCount, 0, len(counts))
	for _, wc := range counts {
		ranked = append(ranked, wc)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	top := make([]string, 0, len(ranked))
	for _, wc := range ranked {
		top = append(top, wc.word)
	}

	return strings.Join(top, "; ")
}
