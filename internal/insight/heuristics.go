package insight

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/samber/lo"
)

// RootCauseNote is the fixed root-cause explanation. No inference is done.
const RootCauseNote = "Root Cause: Lack of communication in the process."

const wordCloudSize = 10

var criticalKeywords = []string{
	"urgent", "asap", "immediately", "critical", "escalate", "outage", "down",
	"failure", "broken", "deadline", "lawsuit", "refund", "cancel",
}

var requestOpeners = []string{"please", "kindly", "could", "can", "would", "need", "must"}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {}, "you": {},
	"your": {}, "with": {}, "this": {}, "that": {}, "have": {}, "has": {}, "was": {},
	"were": {}, "will": {}, "from": {}, "they": {}, "them": {}, "our": {}, "its": {},
	"all": {}, "any": {}, "can": {}, "been": {}, "there": {}, "their": {}, "what": {},
	"when": {}, "which": {}, "would": {}, "could": {}, "about": {}, "into": {},
	"very": {}, "just": {}, "also": {}, "than": {}, "then": {}, "here": {},
}

// words splits text into lower-cased words, dropping punctuation.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// sentences splits text after sentence punctuation and line breaks. The
// terminating punctuation stays with its sentence.
func sentences(text string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for _, r := range text {
		if r == '\n' || r == '\r' {
			flush()
			continue
		}
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return out
}

func isSignalWord(w string) bool {
	if _, ok := positiveKeywords[w]; ok {
		return true
	}
	if _, ok := negativeKeywords[w]; ok {
		return true
	}
	return lo.Contains(criticalKeywords, w)
}

// Highlights returns the sentences that carry a sentiment or critical
// keyword, as a bullet list.
func Highlights(text string) (string, bool) {
	hits := lo.Filter(sentences(text), func(s string, _ int) bool {
		return lo.SomeBy(words(s), isSignalWord)
	})
	if len(hits) == 0 {
		return "", false
	}
	return bulletList(hits), true
}

// WordCloud lists the most frequent content words as "word (n)".
func WordCloud(text string) (string, bool) {
	counts := make(map[string]int)
	for _, w := range words(text) {
		if len([]rune(w)) < 3 {
			continue
		}
		if _, ok := stopWords[w]; ok {
			continue
		}
		counts[w]++
	}
	if len(counts) == 0 {
		return "", false
	}

	keys := lo.Keys(counts)
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > wordCloudSize {
		keys = keys[:wordCloudSize]
	}

	entries := lo.Map(keys, func(w string, _ int) string {
		return fmt.Sprintf("%s (%d)", w, counts[w])
	})
	return strings.Join(entries, ", "), true
}

// CriticalKeywords returns the distinct critical keywords found in text, in
// order of first appearance.
func CriticalKeywords(text string) []string {
	return lo.Uniq(lo.Filter(words(text), func(w string, _ int) bool {
		return lo.Contains(criticalKeywords, w)
	}))
}

func countCritical(text string) int {
	return len(lo.Filter(words(text), func(w string, _ int) bool {
		return lo.Contains(criticalKeywords, w)
	}))
}

// Severity is the urgency grade reported by the severity detection
// analysis. Its value is shown to the user verbatim.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// DetectSeverity grades an email from its critical keyword hits and
// sentiment score.
func DetectSeverity(text string) Severity {
	hits := countCritical(text)
	score := Score(text).Score
	switch {
	case hits >= 3 || score <= -2:
		return SeverityHigh
	case hits >= 1 || score < 0:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// ActionableItems returns questions and requests found in text.
func ActionableItems(text string) (string, bool) {
	items := lo.Filter(sentences(text), func(s string, _ int) bool {
		if strings.HasSuffix(s, "?") {
			return true
		}
		ws := words(s)
		return len(ws) > 0 && lo.Contains(requestOpeners, ws[0])
	})
	if len(items) == 0 {
		return "", false
	}
	return bulletList(items), true
}

// ExportText renders the downloadable summary of a run. The response and
// sentiment parts are included only when they were computed.
func ExportText(subject string, reply *domain.DraftReply, sentiment *domain.SentimentResult) string {
	parts := []string{"Subject: " + subject}
	if reply != nil {
		parts = append(parts, "Response:\n"+reply.Text)
	}
	if sentiment != nil {
		parts = append(parts, "Sentiment Analysis: "+sentiment.String())
	}
	return strings.Join(parts, "\n\n")
}

func bulletList(items []string) string {
	return "- " + strings.Join(items, "\n- ")
}
