package insight

import "github.com/lu-zhengda/escalytics/internal/domain"

// Assemble builds the report from computed results. Sections follow the
// canonical analysis order; an analysis is included only when it is enabled
// in cfg and has a result.
func Assemble(cfg domain.AnalysisConfig, results map[domain.Analysis]string) domain.Report {
	var report domain.Report
	for _, a := range domain.Analyses {
		if !cfg.Enabled(a) {
			continue
		}
		text, ok := results[a]
		if !ok {
			continue
		}
		report.Sections = append(report.Sections, domain.Section{Analysis: a, Text: text})
	}
	return report
}
