// Package message extracts the subject and body text the classifier needs
// from a raw RFC 5322 message.
package message

import (
	"bytes"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"

	"github.com/hpungsan/mailtag/internal/errors"
)

// MaxSize caps how much of a raw message is read.
const MaxSize = 1 << 20

// Message is the classifier-relevant part of a parsed email.
type Message struct {
	Subject string `json:"subject"`
	From    string `json:"from,omitempty"`
	Body    string `json:"body"`
	// FromHTML is set when no text/plain part existed and Body was
	// extracted from the HTML part.
	FromHTML bool `json:"from_html,omitempty"`
}

// Parse reads a raw message. The first text/plain inline part becomes the
// body; when there is none, the first text/html part is reduced to text.
// Attachments are ignored.
func Parse(r io.Reader) (*Message, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return nil, errors.NewInvalidRequest("failed to read message: " + err.Error())
	}
	if len(raw) > MaxSize {
		return nil, errors.NewInvalidRequest("message exceeds 1 MiB")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.NewInvalidRequest("message is empty")
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return nil, errors.NewInvalidRequest("malformed message: " + err.Error())
	}
	defer mr.Close()

	msg := &Message{}
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = strings.TrimSpace(subject)
	}
	if from, err := mr.Header.AddressList("From"); err == nil && len(from) > 0 {
		msg.From = from[0].Address
	}

	var plain, html string
	var gotPlain, gotHTML bool
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInvalidRequest("malformed message: " + err.Error())
		}

		h, ok := p.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		ct, _, _ := h.ContentType()
		if ct == "" {
			ct = "text/plain"
		}
		switch {
		case strings.HasPrefix(ct, "text/plain") && !gotPlain:
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, errors.NewInvalidRequest("failed to read text part: " + err.Error())
			}
			plain, gotPlain = string(b), true
		case strings.HasPrefix(ct, "text/html") && !gotHTML:
			b, err := io.ReadAll(p.Body)
			if err != nil {
				return nil, errors.NewInvalidRequest("failed to read html part: " + err.Error())
			}
			html, gotHTML = string(b), true
		}
	}

	switch {
	case gotPlain:
		msg.Body = strings.TrimSpace(plain)
	case gotHTML:
		text, err := HTMLText(html)
		if err != nil {
			return nil, err
		}
		msg.Body = text
		msg.FromHTML = true
	}

	return msg, nil
}

// HTMLText returns the visible text of an HTML fragment with whitespace
// collapsed. Script and style contents are dropped.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", errors.NewInvalidRequest("malformed html body: " + err.Error())
	}
	doc.Find("script, style, head").Remove()

	// Block elements would otherwise glue adjacent words together.
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li, td, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
