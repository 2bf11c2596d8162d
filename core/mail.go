package core

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"net/mail"
)

type (
	Attachment struct {
		Content     *bytes.Buffer // base64 encoded
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		TextContent string
		HTMLContent string
		Attachments []Attachment
		Categories  []string // tags for delivery stats, eg. "academics", "export"
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

// Attach reads `r` fully and adds it as a base64 encoded attachment.
// The content type is sniffed when not provided.
func (m *EmailMessage) Attach(r io.Reader, filename string, ct ...string) error {
	content, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	at := Attachment{Filename: filename, Content: new(bytes.Buffer)}
	enc := base64.NewEncoder(base64.StdEncoding, at.Content)
	if _, err := enc.Write(content); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if len(ct) > 0 && ct[0] != "" {
		at.ContentType = ct[0]
	} else {
		at.ContentType = http.DetectContentType(content)
	}
	m.Attachments = append(m.Attachments, at)
	return nil
}

func (m *EmailMessage) HasRecipients() bool  { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool     { return (m.TextContent != "") || (m.HTMLContent != "") }
func (m *EmailMessage) HasAttachments() bool { return len(m.Attachments) > 0 }
