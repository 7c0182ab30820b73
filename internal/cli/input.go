package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/jaytaylor/html2text"
	"github.com/lu-zhengda/escalytics/internal/domain"
)

// readContentFile reads email text from path.
func readContentFile(path string, logger *log.Logger) (domain.EmailContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.EmailContent{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseContent(data, logger)
}

// readContent reads email text from r.
func readContent(r io.Reader, logger *log.Logger) (domain.EmailContent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.EmailContent{}, fmt.Errorf("failed to read input: %w", err)
	}
	return parseContent(data, logger)
}

// parseContent accepts either a raw RFC 5322 message (an .eml export) or
// plain pasted text. Input is treated as a message only when its header
// carries a From or Subject field. Header fields that fail to decode are
// logged at debug level and left empty.
func parseContent(data []byte, logger *log.Logger) (domain.EmailContent, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if strings.TrimSpace(string(data)) == "" {
		return domain.EmailContent{}, nil
	}
	if c, ok := parseMessage(data, logger); ok {
		return c, nil
	}
	return domain.EmailContent{Body: string(data)}, nil
}

func parseMessage(data []byte, logger *log.Logger) (domain.EmailContent, bool) {
	mr, err := mail.CreateReader(bytes.NewReader(data))
	if err != nil {
		return domain.EmailContent{}, false
	}
	defer mr.Close()

	var c domain.EmailContent
	if c.Subject, err = mr.Header.Subject(); err != nil {
		logger.Debug("undecodable header", "field", "Subject", "err", err)
	}
	if from, err := mr.Header.AddressList("From"); err != nil {
		logger.Debug("undecodable header", "field", "From", "err", err)
	} else if len(from) > 0 {
		c.From = domain.Address{Name: from[0].Name, Email: from[0].Address}
	}
	if c.Subject == "" && c.From.Email == "" {
		return domain.EmailContent{}, false
	}
	if c.MessageID, err = mr.Header.MessageID(); err != nil {
		logger.Debug("undecodable header", "field", "Message-ID", "err", err)
	}
	if to, err := mr.Header.AddressList("To"); err != nil {
		logger.Debug("undecodable header", "field", "To", "err", err)
	} else {
		for _, a := range to {
			c.To = append(c.To, domain.Address{Name: a.Name, Email: a.Address})
		}
	}
	if c.Date, err = mr.Header.Date(); err != nil {
		logger.Debug("undecodable header", "field", "Date", "err", err)
	}

	var text, html string
	for {
		// io.EOF ends the parts; a malformed part ends them early.
		p, err := mr.NextPart()
		if err != nil {
			break
		}
		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		body, err := io.ReadAll(p.Body)
		if err != nil {
			continue
		}
		switch {
		case ct == "text/html" && html == "":
			html = string(body)
		case (ct == "text/plain" || ct == "") && text == "":
			text = string(body)
		}
	}

	switch {
	case text != "":
		c.Body = text
	case html != "":
		if plain, err := html2text.FromString(html, html2text.Options{}); err == nil {
			c.Body = plain
		} else {
			c.Body = html
		}
	}
	return c, true
}
