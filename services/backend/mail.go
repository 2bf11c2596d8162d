package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/academics"
)

const category = "academics"

// MailBackend notifies the records office of imports and mails them every exported workbook.
type MailBackend struct {
	mailSvc core.EmailService
	codec   academics.Codec
	to      mail.Address
}

var _ academics.Backend = (*MailBackend)(nil)

func NewMailBackend(mailSvc core.EmailService, codec academics.Codec, recordsOffice mail.Address) *MailBackend {
	return &MailBackend{mailSvc: mailSvc, codec: codec, to: recordsOffice}
}

func (b *MailBackend) SubmitImport(ctx context.Context, snap academics.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mailSvc.SendMessages(&core.EmailMessage{
		To:         []mail.Address{b.to},
		Subject:    fmt.Sprintf("%s imported %s", snap.Owner, fileName(snap)),
		Categories: []string{category, "import"},
		TextContent: fmt.Sprintf(
			"%s imported %q at %s: %d columns, %d rows.",
			snap.Owner, fileName(snap), snap.TakenAt.Format("2006-01-02 15:04 MST"), len(snap.Headers), len(snap.Rows),
		),
	})
	return nil
}

func (b *MailBackend) SubmitExport(ctx context.Context, snap academics.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := b.codec.Encode(&buf, snap.Grid()); err != nil {
		return errors.Wrap(err, "encoding attachment")
	}
	name := academics.ExportFileName(snap.FileName, b.codec.Ext())

	msg := &core.EmailMessage{
		To:         []mail.Address{b.to},
		Subject:    fmt.Sprintf("%s saved %s", snap.Owner, name),
		Categories: []string{category, "export"},
		TextContent: fmt.Sprintf(
			"%s saved %q at %s: %d columns, %d rows. The workbook is attached.",
			snap.Owner, name, snap.TakenAt.Format("2006-01-02 15:04 MST"), len(snap.Headers), len(snap.Rows),
		),
	}
	if err := msg.Attach(&buf, name, b.codec.ContentType()); err != nil {
		return errors.Wrap(err, "attaching workbook")
	}
	b.mailSvc.SendMessages(msg)
	return nil
}

func fileName(snap academics.Snapshot) string {
	if snap.FileName == "" {
		return "a sheet"
	}
	return snap.FileName
}
