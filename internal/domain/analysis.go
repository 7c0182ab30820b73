package domain

import (
	"fmt"
	"strings"
	"time"
)

// Analysis names one computation over an email that produces a report section.
type Analysis string

const (
	AnalysisSentiment             Analysis = "sentiment"
	AnalysisHighlights            Analysis = "highlights"
	AnalysisResponse              Analysis = "response"
	AnalysisWordCloud             Analysis = "wordcloud"
	AnalysisGrammarCheck          Analysis = "grammar_check"
	AnalysisKeyPhrases            Analysis = "key_phrases"
	AnalysisActionableItems       Analysis = "actionable_items"
	AnalysisRootCause             Analysis = "root_cause"
	AnalysisCulpritIdentification Analysis = "culprit_identification"
	AnalysisTrendAnalysis         Analysis = "trend_analysis"
	AnalysisRiskAssessment        Analysis = "risk_assessment"
	AnalysisSeverityDetection     Analysis = "severity_detection"
	AnalysisCriticalKeywords      Analysis = "critical_keywords"
	AnalysisExport                Analysis = "export"
)

// Analyses lists every analysis in canonical report order.
var Analyses = []Analysis{
	AnalysisSentiment,
	AnalysisHighlights,
	AnalysisResponse,
	AnalysisWordCloud,
	AnalysisGrammarCheck,
	AnalysisKeyPhrases,
	AnalysisActionableItems,
	AnalysisRootCause,
	AnalysisCulpritIdentification,
	AnalysisTrendAnalysis,
	AnalysisRiskAssessment,
	AnalysisSeverityDetection,
	AnalysisCriticalKeywords,
	AnalysisExport,
}

var analysisTitles = map[Analysis]string{
	AnalysisSentiment:             "Sentiment Analysis",
	AnalysisHighlights:            "Highlights",
	AnalysisResponse:              "Suggested Reply",
	AnalysisWordCloud:             "Word Cloud",
	AnalysisGrammarCheck:          "Grammar Check",
	AnalysisKeyPhrases:            "Key Phrases",
	AnalysisActionableItems:       "Actionable Items",
	AnalysisRootCause:             "Root Cause Detection",
	AnalysisCulpritIdentification: "Culprit Identification",
	AnalysisTrendAnalysis:         "Trend Analysis",
	AnalysisRiskAssessment:        "Risk Assessment",
	AnalysisSeverityDetection:     "Severity Detection",
	AnalysisCriticalKeywords:      "Critical Keywords",
	AnalysisExport:                "Export",
}

// Title returns the human-friendly section heading.
func (a Analysis) Title() string {
	if t, ok := analysisTitles[a]; ok {
		return t
	}
	return string(a)
}

// ParseAnalysis validates a user-supplied analysis name.
func ParseAnalysis(s string) (Analysis, error) {
	name := Analysis(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := analysisTitles[name]; !ok {
		return "", fmt.Errorf("unknown analysis %q", s)
	}
	return name, nil
}

// ParseAnalysisList parses a comma-separated list of analysis names.
func ParseAnalysisList(s string) ([]Analysis, error) {
	var out []Analysis
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		a, err := ParseAnalysis(part)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// AnalysisConfig maps each analysis to its enabled flag. Analyses missing
// from the map are disabled.
type AnalysisConfig map[Analysis]bool

// DefaultAnalysisConfig enables every analysis.
func DefaultAnalysisConfig() AnalysisConfig {
	cfg := make(AnalysisConfig, len(Analyses))
	for _, a := range Analyses {
		cfg[a] = true
	}
	return cfg
}

func (c AnalysisConfig) Enabled(a Analysis) bool {
	return c[a]
}

// Clone returns an independent copy of the config.
func (c AnalysisConfig) Clone() AnalysisConfig {
	out := make(AnalysisConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// EnabledList returns the enabled analyses in canonical order.
func (c AnalysisConfig) EnabledList() []Analysis {
	var out []Analysis
	for _, a := range Analyses {
		if c[a] {
			out = append(out, a)
		}
	}
	return out
}

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNegative SentimentLabel = "Negative"
	SentimentNeutral  SentimentLabel = "Neutral"
)

// LabelForScore derives the sentiment label from a keyword score.
func LabelForScore(score int) SentimentLabel {
	switch {
	case score > 0:
		return SentimentPositive
	case score < 0:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

type SentimentResult struct {
	Score int
	Label SentimentLabel
}

func (r SentimentResult) String() string {
	return fmt.Sprintf("%s (Score: %d)", r.Label, r.Score)
}

// DraftReply is the outcome of reply generation. When Succeeded is false,
// Text holds the fallback message and Err the underlying failure.
type DraftReply struct {
	Text      string
	Succeeded bool
	Err       error
}

type Section struct {
	Analysis Analysis
	Text     string
}

// Report is the ordered set of analysis outputs for one run.
type Report struct {
	Subject  string
	Sections []Section
}

// Section returns the text of the named section, if present.
func (r Report) Section(a Analysis) (string, bool) {
	for _, s := range r.Sections {
		if s.Analysis == a {
			return s.Text, true
		}
	}
	return "", false
}

// String renders the report as plain text, one titled block per section.
func (r Report) String() string {
	var b strings.Builder
	for i, s := range r.Sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## " + s.Analysis.Title() + "\n")
		b.WriteString(s.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// OutboundDraft is a reply ready to be stored as a mailbox draft. Encoded
// holds the base64url form of the MIME message.
type OutboundDraft struct {
	To       string
	From     string
	Subject  string
	Body     string
	ThreadID string
	Encoded  []byte
}

type RunSource string

const (
	SourceMailbox RunSource = "mailbox"
	SourcePaste   RunSource = "paste"
)

// Run is a recorded analysis run.
type Run struct {
	ID        string
	AccountID string
	Source    RunSource
	Subject   string
	Report    Report
	DraftID   string
	CreatedAt time.Time
}
