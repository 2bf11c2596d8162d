package emailsvc

import (
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/trezcool/academia/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"
)

// apiFunc performs a SendGrid API request.
type apiFunc func(req rest.Request) (*rest.Response, error)

type sendgridService struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	logger     core.Logger
	api        apiFunc
}

var _ core.EmailService = (*sendgridService)(nil)

func NewSendgridService(conf *core.Config, logger core.Logger) *sendgridService {
	return newSendgridService(conf, logger, sendgrid.API)
}

func newSendgridService(conf *core.Config, logger core.Logger, api apiFunc) *sendgridService {
	from := conf.DefaultFromEmail
	return &sendgridService{
		key:        conf.SendgridAPIKey,
		from:       sgmail.NewEmail(from.Name, from.Address),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
		api:        api,
	}
}

func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		msg := msg
		go func() {
			if err := svc.send(*msg); err != nil {
				svc.logger.Error(err.Error(), err)
			}
		}()
	}
}

func (svc sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + msg.Subject

	for _, to := range msg.To {
		p.AddTos(svc.getSGEmail(to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(svc.getSGEmail(cc))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(svc.getSGEmail(bcc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	if len(msg.Categories) > 0 {
		m.AddCategories(msg.Categories...)
	}

	// sendgrid requires some content, text/plain before text/html
	text := msg.TextContent
	if text == "" && msg.HTMLContent == "" {
		text = attachmentsSummary(msg.Attachments)
	}
	if text != "" {
		m.AddContent(sgmail.NewContent("text/plain", text))
	}
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}

	for _, a := range msg.Attachments {
		m.AddAttachment(svc.getSGAttachment(a))
	}

	return m
}

func (svc sendgridService) getSGEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

func (svc sendgridService) getSGAttachment(at core.Attachment) *sgmail.Attachment {
	return &sgmail.Attachment{
		Content:     at.Content.String(),
		Type:        at.ContentType,
		Filename:    at.Filename,
		Disposition: "attachment",
	}
}

// send posts one message. Messages without recipients or anything to deliver are skipped.
func (svc sendgridService) send(msg core.EmailMessage) error {
	if !msg.HasRecipients() || !(msg.HasContent() || msg.HasAttachments()) {
		return nil
	}

	req := sendgrid.GetRequest(svc.key, endpoint, host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(svc.prepare(msg))

	res, err := svc.api(req)
	if err != nil {
		return errors.Wrapf(err, "sending email %q", msg.Subject)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("sending email %q - status: %d - Body: %s", msg.Subject, res.StatusCode, res.Body)
	}
	return nil
}

func attachmentsSummary(ats []core.Attachment) string {
	names := make([]string, 0, len(ats))
	for _, at := range ats {
		names = append(names, at.Filename)
	}
	return fmt.Sprintf("Attached: %s", strings.Join(names, ", "))
}
