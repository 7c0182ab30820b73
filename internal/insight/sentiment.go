package insight

import (
	"strings"

	"github.com/lu-zhengda/escalytics/internal/domain"
)

var (
	positiveKeywords = map[string]struct{}{
		"happy": {}, "good": {}, "great": {}, "excellent": {}, "love": {},
	}
	negativeKeywords = map[string]struct{}{
		"sad": {}, "bad": {}, "hate": {}, "angry": {}, "disappointed": {},
	}
)

// Score computes a keyword sentiment score for text. Tokens are split on
// whitespace and lower-cased, then matched exactly: "good." does not count
// as "good".
func Score(text string) domain.SentimentResult {
	score := 0
	for _, tok := range strings.Fields(text) {
		tok = strings.ToLower(tok)
		if _, ok := positiveKeywords[tok]; ok {
			score++
		} else if _, ok := negativeKeywords[tok]; ok {
			score--
		}
	}
	return domain.SentimentResult{Score: score, Label: domain.LabelForScore(score)}
}
