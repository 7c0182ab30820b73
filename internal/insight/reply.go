package insight

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

const (
	// MaxPromptChars bounds how much of the email body is sent to the
	// generation backend.
	MaxPromptChars = 1000

	replyPromptPrefix = "Draft a professional response to this email:\n\n"

	// FallbackReply is returned when the backend could not produce a reply.
	FallbackReply = "Sorry, unable to generate a response at the moment."
)

// TextGenerator maps a prompt to generated text.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ReplyGenerator drafts replies through a TextGenerator. It never returns an
// error: backend failures degrade to FallbackReply.
type ReplyGenerator struct {
	gen    TextGenerator
	logger *log.Logger
}

func NewReplyGenerator(gen TextGenerator, logger *log.Logger) *ReplyGenerator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ReplyGenerator{gen: gen, logger: logger}
}

// Generate drafts a reply to the first MaxPromptChars characters of text.
func (g *ReplyGenerator) Generate(ctx context.Context, text string) domain.DraftReply {
	prompt := ReplyPrompt(text)
	out, err := g.gen.Generate(ctx, prompt)
	if err != nil {
		g.logger.Warn("reply generation failed", "err", err)
		return domain.DraftReply{Text: FallbackReply, Succeeded: false, Err: err}
	}
	return domain.DraftReply{Text: strings.TrimSpace(out), Succeeded: true}
}

// ReplyPrompt builds the prompt sent to the backend for text.
func ReplyPrompt(text string) string {
	return replyPromptPrefix + truncateRunes(text, MaxPromptChars)
}

// truncateRunes returns at most n characters of s without splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
