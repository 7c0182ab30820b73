package insight

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

const maxSubjectChars = 50

// Encoder turns a reply into a mailbox-ready draft message.
type Encoder struct {
	From domain.Address
}

// NewEncoder creates an Encoder sending from the given address, written as
// either "name <addr>" or a bare address. An empty from omits the header.
func NewEncoder(from string) *Encoder {
	return &Encoder{From: ParseAddress(from)}
}

// ParseAddress parses a single RFC 5322 address. Input that does not parse
// is kept whole as the address.
func ParseAddress(s string) domain.Address {
	s = strings.TrimSpace(s)
	if s == "" {
		return domain.Address{}
	}
	a, err := mail.ParseAddress(s)
	if err != nil {
		return domain.Address{Email: s}
	}
	return domain.Address{Name: a.Name, Email: a.Address}
}

// Encode builds the MIME message for a reply and its base64url encoding.
// The encoding keeps padding. Address headers are quoted and encoded as
// needed, so display names may hold commas or non-ASCII text.
func (e *Encoder) Encode(to domain.Address, subjectSeed, body string) (*domain.OutboundDraft, error) {
	subject := ReplySubject(subjectSeed)

	var h mail.Header
	if e.From.Email != "" {
		h.SetAddressList("From", []*mail.Address{{Name: e.From.Name, Address: e.From.Email}})
	}
	if to.Email != "" {
		h.SetAddressList("To", []*mail.Address{{Name: to.Name, Address: to.Email}})
	}
	h.SetSubject(subject)
	h.Set("MIME-Version", "1.0")
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})
	h.Set("Content-Transfer-Encoding", "quoted-printable")

	var buf bytes.Buffer
	w, err := message.CreateWriter(&buf, h.Header)
	if err != nil {
		return nil, fmt.Errorf("failed to create message writer: %w", err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		return nil, fmt.Errorf("failed to write message body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish message: %w", err)
	}

	encoded := make([]byte, base64.URLEncoding.EncodedLen(buf.Len()))
	base64.URLEncoding.Encode(encoded, buf.Bytes())

	return &domain.OutboundDraft{
		To:      to.String(),
		From:    e.From.String(),
		Subject: subject,
		Body:    body,
		Encoded: encoded,
	}, nil
}

// ReplySubject derives the draft subject from a seed. Seeds longer than 50
// characters are cut and marked as a reply; shorter seeds are used as is.
func ReplySubject(seed string) string {
	if utf8.RuneCountInString(seed) <= maxSubjectChars {
		return seed
	}
	return "Re: " + truncateRunes(seed, maxSubjectChars) + "..."
}
