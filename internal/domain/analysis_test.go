package domain

import (
	"strings"
	"testing"
)

func TestLabelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  SentimentLabel
	}{
		{3, SentimentPositive},
		{1, SentimentPositive},
		{0, SentimentNeutral},
		{-1, SentimentNegative},
		{-7, SentimentNegative},
	}
	for _, tt := range tests {
		if got := LabelForScore(tt.score); got != tt.want {
			t.Errorf("LabelForScore(%d) = %q, want %q", tt.score, got, tt.want)
		}
	}
}

func TestSentimentResult_String(t *testing.T) {
	r := SentimentResult{Score: 2, Label: SentimentPositive}
	if got := r.String(); got != "Positive (Score: 2)" {
		t.Errorf("String() = %q, want %q", got, "Positive (Score: 2)")
	}
}

func TestParseAnalysis(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Analysis
		wantErr bool
	}{
		{"exact", "sentiment", AnalysisSentiment, false},
		{"mixed case and spaces", "  Root_Cause ", AnalysisRootCause, false},
		{"unknown", "horoscope", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAnalysis(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAnalysis(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAnalysis(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAnalysisList(t *testing.T) {
	got, err := ParseAnalysisList("sentiment, response,,export")
	if err != nil {
		t.Fatalf("ParseAnalysisList() error: %v", err)
	}
	want := []Analysis{AnalysisSentiment, AnalysisResponse, AnalysisExport}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if _, err := ParseAnalysisList("sentiment,bogus"); err == nil {
		t.Error("expected error for unknown analysis")
	}
}

func TestDefaultAnalysisConfig(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	if len(cfg) != len(Analyses) {
		t.Errorf("len = %d, want %d", len(cfg), len(Analyses))
	}
	for _, a := range Analyses {
		if !cfg.Enabled(a) {
			t.Errorf("%s disabled by default", a)
		}
	}
}

func TestAnalysisConfig_MissingIsDisabled(t *testing.T) {
	cfg := AnalysisConfig{AnalysisSentiment: true}
	if cfg.Enabled(AnalysisResponse) {
		t.Error("missing analysis should be disabled")
	}
	got := cfg.EnabledList()
	if len(got) != 1 || got[0] != AnalysisSentiment {
		t.Errorf("EnabledList() = %v, want [sentiment]", got)
	}
}

func TestAnalysisConfig_Clone(t *testing.T) {
	cfg := DefaultAnalysisConfig()
	c := cfg.Clone()
	c[AnalysisExport] = false
	if !cfg.Enabled(AnalysisExport) {
		t.Error("Clone() shares state with the original")
	}
}

func TestReport_Section(t *testing.T) {
	r := Report{Sections: []Section{
		{Analysis: AnalysisSentiment, Text: "Positive (Score: 1)"},
		{Analysis: AnalysisRootCause, Text: "Root Cause: x"},
	}}
	if got, ok := r.Section(AnalysisRootCause); !ok || got != "Root Cause: x" {
		t.Errorf("Section(root_cause) = %q, %v", got, ok)
	}
	if _, ok := r.Section(AnalysisResponse); ok {
		t.Error("Section(response) should be absent")
	}

	out := r.String()
	if !strings.Contains(out, "## Sentiment Analysis\nPositive (Score: 1)") {
		t.Errorf("String() missing sentiment block:\n%s", out)
	}
	if strings.Index(out, "Sentiment") > strings.Index(out, "Root Cause Detection") {
		t.Errorf("String() out of order:\n%s", out)
	}
}
