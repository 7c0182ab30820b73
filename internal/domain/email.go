package domain

import (
	"strconv"
	"strings"
	"time"
)

type Address struct {
	Name  string
	Email string
}

// String renders the address for display. Names holding address
// separators are quoted.
func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	name := a.Name
	if strings.ContainsAny(name, `,;<>@"`) {
		name = strconv.Quote(name)
	}
	return name + " <" + a.Email + ">"
}

// JoinAddresses renders addrs as a comma-separated display list.
func JoinAddresses(addrs []Address) string {
	parts := make([]string, len(addrs))
	for i, a := range addrs {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

// Email is a message as returned by the mailbox provider.
type Email struct {
	ID       string
	ThreadID string
	From     Address
	To       []Address
	Subject  string
	Body     string
	Snippet  string
	Date     time.Time
}

// Content returns the analyzable view of the email. The snippet stands in
// for the body when no text part could be extracted.
func (e *Email) Content() EmailContent {
	body := e.Body
	if strings.TrimSpace(body) == "" {
		body = e.Snippet
	}
	return EmailContent{
		MessageID: e.ID,
		ThreadID:  e.ThreadID,
		From:      e.From,
		To:        e.To,
		Subject:   e.Subject,
		Body:      body,
		Date:      e.Date,
	}
}

// EmailContent is the input of one analysis run. It comes either from the
// mailbox or from text pasted by the user, in which case only Body (and
// possibly Subject) is set.
type EmailContent struct {
	MessageID string
	ThreadID  string
	From      Address
	To        []Address
	Subject   string
	Body      string
	// Date is when the message was sent; zero for pasted text.
	Date time.Time
}

// IsEmpty reports whether there is no body text to analyze.
func (c EmailContent) IsEmpty() bool {
	return strings.TrimSpace(c.Body) == ""
}
