package emailsvc

import (
	"fmt"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

type consoleService struct {
	defaultFromEmail mail.Address
	subjPrefix       string
	logger           core.Logger
	sync             bool

	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService logs the messages instead of sending them.
func NewConsoleService(conf *core.Config, logger core.Logger) *consoleService {
	return &consoleService{
		defaultFromEmail: conf.DefaultFromEmail,
		subjPrefix:       "[" + conf.AppName + "] ",
		logger:           logger,
	}
}

// NewConsoleServiceMock sends synchronously and keeps the sent messages for inspection.
func NewConsoleServiceMock(conf *core.Config, logger core.Logger) *consoleService {
	svc := NewConsoleService(conf, logger)
	svc.sync = true
	return svc
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if svc.sync {
			svc.sendMessage(msg)
		} else {
			go svc.sendMessage(msg)
		}
	}
}

// SentMessages returns the messages sent so far.
func (svc *consoleService) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	out := make([]core.EmailMessage, len(svc.sent))
	copy(out, svc.sent)
	return out
}

func (svc *consoleService) sendMessage(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
		return
	}
	body, err := svc.render(*msg)
	if err != nil {
		svc.logger.Error(errors.Wrap(err, "rendering email").Error(), err)
		return
	}
	svc.logger.Debug(body)

	svc.mu.Lock()
	svc.sent = append(svc.sent, *msg)
	svc.mu.Unlock()
}

func (svc *consoleService) render(msg core.EmailMessage) (string, error) {
	body := new(strings.Builder)

	// Write mail header
	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.defaultFromEmail.String())
	_, _ = fmt.Fprint(body, "MIME-Version: 1.0\r\n")
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	_, _ = fmt.Fprintf(body, "CC: %s\r\n", joinAddresses(msg.Cc))
	_, _ = fmt.Fprintf(body, "BCC: %s\r\n", joinAddresses(msg.Bcc))
	if len(msg.Categories) > 0 {
		_, _ = fmt.Fprintf(body, "X-Categories: %s\r\n", strings.Join(msg.Categories, ", "))
	}

	mixedW := multipart.NewWriter(body)
	_, _ = fmt.Fprintf(body, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", mixedW.Boundary())

	parts := []struct {
		ct, content string
	}{
		{"text/plain", msg.TextContent},
		{"text/html", msg.HTMLContent},
	}
	for _, p := range parts {
		if p.content == "" {
			continue
		}
		w, err := mixedW.CreatePart(textproto.MIMEHeader{"Content-Type": {p.ct}})
		if err != nil {
			return "", errors.Wrap(err, "creating "+p.ct+" part")
		}
		_, _ = fmt.Fprintf(w, "%s\r\n", p.content)
	}

	for _, at := range msg.Attachments {
		w, err := mixedW.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {at.ContentType},
			"Content-Transfer-Encoding": {"base64"},
			"Content-Disposition":       {"attachment; filename=" + at.Filename}})
		if err != nil {
			return "", errors.Wrap(err, "creating "+at.ContentType+" part")
		}
		_, _ = fmt.Fprintf(w, "%s\r\n", at.Content.String())
	}

	if err := mixedW.Close(); err != nil {
		return "", errors.Wrap(err, "closing multipart writer")
	}
	return body.String(), nil
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
