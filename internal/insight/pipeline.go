package insight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

// ErrEmptyInput is returned when there is no email text to analyze.
var ErrEmptyInput = errors.New("no email content to analyze")

// ReplyDrafter drafts a reply for an email body.
type ReplyDrafter interface {
	Generate(ctx context.Context, text string) domain.DraftReply
}

// DraftEncoder builds the outbound draft for a generated reply.
type DraftEncoder interface {
	Encode(to domain.Address, subjectSeed, body string) (*domain.OutboundDraft, error)
}

// Pipeline runs the enabled analyses over one email.
type Pipeline struct {
	replies   ReplyDrafter
	encoder   DraftEncoder
	defaultTo domain.Address
	logger    *log.Logger
}

// NewPipeline creates a Pipeline. defaultTo is the draft recipient used when
// the analyzed email has no known sender, e.g. pasted text.
func NewPipeline(replies ReplyDrafter, encoder DraftEncoder, defaultTo string, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pipeline{
		replies:   replies,
		encoder:   encoder,
		defaultTo: ParseAddress(defaultTo),
		logger:    logger,
	}
}

// Run analyzes content and returns the report. The outbound draft is
// non-nil only when the response analysis is enabled and generation
// succeeded.
func (p *Pipeline) Run(ctx context.Context, content domain.EmailContent, cfg domain.AnalysisConfig) (domain.Report, *domain.OutboundDraft, error) {
	if content.IsEmpty() {
		return domain.Report{}, nil, ErrEmptyInput
	}

	body := content.Body
	results := make(map[domain.Analysis]string)

	var reply *domain.DraftReply
	if cfg.Enabled(domain.AnalysisResponse) {
		r := p.replies.Generate(ctx, body)
		reply = &r
		results[domain.AnalysisResponse] = r.Text
	}

	var sentiment *domain.SentimentResult
	if cfg.Enabled(domain.AnalysisSentiment) {
		s := Score(body)
		sentiment = &s
		results[domain.AnalysisSentiment] = "Sentiment: " + s.String()
	}

	p.computeStatic(body, cfg, results)
	if cfg.Enabled(domain.AnalysisExport) {
		results[domain.AnalysisExport] = ExportText(content.Subject, reply, sentiment)
	}

	report := Assemble(cfg, results)
	report.Subject = content.Subject
	p.logger.Debug("report assembled", "sections", len(report.Sections))

	if reply == nil || !reply.Succeeded {
		return report, nil, nil
	}

	draft, err := p.encoder.Encode(p.recipient(content), subjectSeed(content), reply.Text)
	if err != nil {
		return report, nil, fmt.Errorf("failed to encode draft: %w", err)
	}
	draft.ThreadID = content.ThreadID
	return report, draft, nil
}

func (p *Pipeline) computeStatic(body string, cfg domain.AnalysisConfig, results map[domain.Analysis]string) {
	if cfg.Enabled(domain.AnalysisRootCause) {
		results[domain.AnalysisRootCause] = RootCauseNote
	}
	if cfg.Enabled(domain.AnalysisHighlights) {
		if text, ok := Highlights(body); ok {
			results[domain.AnalysisHighlights] = text
		}
	}
	if cfg.Enabled(domain.AnalysisWordCloud) {
		if text, ok := WordCloud(body); ok {
			results[domain.AnalysisWordCloud] = text
		}
	}
	if cfg.Enabled(domain.AnalysisActionableItems) {
		if text, ok := ActionableItems(body); ok {
			results[domain.AnalysisActionableItems] = text
		}
	}
	if cfg.Enabled(domain.AnalysisSeverityDetection) {
		results[domain.AnalysisSeverityDetection] = "Severity: " + string(DetectSeverity(body))
	}
	if cfg.Enabled(domain.AnalysisCriticalKeywords) {
		if kws := CriticalKeywords(body); len(kws) > 0 {
			results[domain.AnalysisCriticalKeywords] = strings.Join(kws, ", ")
		}
	}
}

func (p *Pipeline) recipient(content domain.EmailContent) domain.Address {
	if content.From.Email != "" {
		return content.From
	}
	return p.defaultTo
}

// subjectSeed prefers the original subject and falls back to the body,
// folded onto a single line.
func subjectSeed(content domain.EmailContent) string {
	seed := content.Subject
	if strings.TrimSpace(seed) == "" {
		seed = content.Body
	}
	return strings.Join(strings.Fields(seed), " ")
}
