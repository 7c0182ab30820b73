package insight

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/lu-zhengda/escalytics/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplySubject(t *testing.T) {
	fifty := strings.Repeat("x", 50)
	tests := []struct {
		name string
		seed string
		want string
	}{
		{"short seed unchanged", "Your inquiry", "Your inquiry"},
		{"exactly fifty unchanged", fifty, fifty},
		{"long seed prefixed and cut", fifty + "tail", "Re: " + fifty + "..."},
		{"empty", "", ""},
		{"multi-byte counted by character", strings.Repeat("é", 51), "Re: " + strings.Repeat("é", 50) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplySubject(tt.seed))
		})
	}
}

func decodeDraft(t *testing.T, encoded []byte) (mail.Header, string) {
	t.Helper()
	raw, err := base64.URLEncoding.DecodeString(string(encoded))
	require.NoError(t, err)

	e, err := message.Read(bytes.NewReader(raw))
	require.NoError(t, err)
	body, err := io.ReadAll(e.Body)
	require.NoError(t, err)
	return mail.Header{Header: e.Header}, strings.ReplaceAll(string(body), "\r\n", "\n")
}

func TestEncoder_Encode(t *testing.T) {
	enc := NewEncoder("support@example.com")
	d, err := enc.Encode(domain.Address{Name: "Alice", Email: "alice@example.com"}, "Order delayed", "Hi Alice,\nYour order ships today.")
	require.NoError(t, err)

	assert.Equal(t, "Alice <alice@example.com>", d.To)
	assert.Equal(t, "support@example.com", d.From)
	assert.Equal(t, "Order delayed", d.Subject)
	assert.Equal(t, "Hi Alice,\nYour order ships today.", d.Body)

	h, body := decodeDraft(t, d.Encoded)
	subject, err := h.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Order delayed", subject)
	assert.Equal(t, "Alice <alice@example.com>", h.Get("To"))
	assert.Equal(t, "support@example.com", h.Get("From"))
	mediaType, params, err := h.ContentType()
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mediaType)
	assert.Equal(t, "utf-8", params["charset"])
	assert.Equal(t, "Hi Alice,\nYour order ships today.", body)
}

func TestEncoder_URLSafePadded(t *testing.T) {
	d, err := NewEncoder("").Encode(domain.Address{Email: "a@example.com"}, "s", "??>>~~ ÿþ")
	require.NoError(t, err)

	assert.Zero(t, len(d.Encoded)%4, "encoding must keep padding")
	assert.NotContains(t, string(d.Encoded), "+")
	assert.NotContains(t, string(d.Encoded), "/")

	h, _ := decodeDraft(t, d.Encoded)
	assert.Empty(t, h.Get("From"))
}

func TestEncoder_LongSubject(t *testing.T) {
	seed := strings.Repeat("word ", 20)
	d, err := NewEncoder("me@example.com").Encode(domain.Address{Email: "you@example.com"}, seed, "body")
	require.NoError(t, err)

	want := "Re: " + seed[:50] + "..."
	assert.Equal(t, want, d.Subject)
	h, _ := decodeDraft(t, d.Encoded)
	subject, err := h.Subject()
	require.NoError(t, err)
	assert.Equal(t, want, subject)
}

func TestEncoder_NonASCIISubject(t *testing.T) {
	d, err := NewEncoder("me@example.com").Encode(domain.Address{Email: "you@example.com"}, "Réclamation", "Merci")
	require.NoError(t, err)

	h, body := decodeDraft(t, d.Encoded)
	subject, err := h.Subject()
	require.NoError(t, err)
	assert.Equal(t, "Réclamation", subject)
	assert.Equal(t, "Merci", body)
}

func TestEncoder_AddressHeaders(t *testing.T) {
	tests := []struct {
		name string
		to   domain.Address
	}{
		{"comma in display name", domain.Address{Name: "Doe, John", Email: "john@example.com"}},
		{"non-ASCII display name", domain.Address{Name: "Zoë Müller", Email: "zoe@example.com"}},
		{"bare address", domain.Address{Email: "ops@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewEncoder(`"Support, Team" <support@example.com>`).Encode(tt.to, "Hello", "Hi")
			require.NoError(t, err)

			h, _ := decodeDraft(t, d.Encoded)
			to, err := h.AddressList("To")
			require.NoError(t, err)
			require.Len(t, to, 1)
			assert.Equal(t, tt.to.Name, to[0].Name)
			assert.Equal(t, tt.to.Email, to[0].Address)
			assert.NotContains(t, h.Get("To"), "ü", "non-ASCII names must be encoded words")

			from, err := h.AddressList("From")
			require.NoError(t, err)
			require.Len(t, from, 1)
			assert.Equal(t, "Support, Team", from[0].Name)
			assert.Equal(t, "support@example.com", from[0].Address)
		})
	}
}

func TestEncoder_NoRecipient(t *testing.T) {
	d, err := NewEncoder("").Encode(domain.Address{}, "s", "b")
	require.NoError(t, err)

	h, _ := decodeDraft(t, d.Encoded)
	assert.False(t, h.Has("To"))
	assert.Empty(t, d.To)
}

func TestParseAddress(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Address
	}{
		{"", domain.Address{}},
		{"me@example.com", domain.Address{Email: "me@example.com"}},
		{"Me <me@example.com>", domain.Address{Name: "Me", Email: "me@example.com"}},
		{`"Doe, John" <john@example.com>`, domain.Address{Name: "Doe, John", Email: "john@example.com"}},
		{"not an address", domain.Address{Email: "not an address"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAddress(tt.in))
		})
	}
}
