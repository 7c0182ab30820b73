package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lu-zhengda/escalytics/internal/domain"
)

func TestExportReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.md")
	report := domain.Report{
		Subject: "Outage",
		Sections: []domain.Section{
			{Analysis: domain.AnalysisSentiment, Text: "Sentiment: Neutral (Score: 0)"},
		},
	}

	require.NoError(t, ExportReport(path, report))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Outage\n\n## Sentiment Analysis\nSentiment: Neutral (Score: 0)\n", string(data))
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "escalytics-abc.md", ExportFileName("abc"))
	assert.Equal(t, "escalytics-report.md", ExportFileName(""))
}
