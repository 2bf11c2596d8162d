package emailsvc

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
	"testing"

	"github.com/sendgrid/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

type fakeAPI struct {
	status int
	reqs   []rest.Request
}

func (f *fakeAPI) call(req rest.Request) (*rest.Response, error) {
	f.reqs = append(f.reqs, req)
	return &rest.Response{StatusCode: f.status, Body: "nope"}, nil
}

// sgBody is the part of the v3 mail/send payload the tests look at.
type sgBody struct {
	Personalizations []struct {
		To      []struct{ Email string } `json:"to"`
		Subject string                   `json:"subject"`
	} `json:"personalizations"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
	Attachments []struct {
		Content  string `json:"content"`
		Type     string `json:"type"`
		Filename string `json:"filename"`
	} `json:"attachments"`
	Categories []string `json:"categories"`
}

func newTestSendgrid(status int) (*sendgridService, *fakeAPI) {
	conf := &core.Config{
		AppName:          "Academia",
		SendgridAPIKey:   "sg-key",
		DefaultFromEmail: mail.Address{Name: "Academia", Address: "noreply@academia.test"},
	}
	api := &fakeAPI{status: status}
	return newSendgridService(conf, nopLogger{}, api.call), api
}

func TestSendgridService_send(t *testing.T) {
	svc, api := newTestSendgrid(http.StatusAccepted)

	msg := core.EmailMessage{
		To:         []mail.Address{{Name: "Records", Address: "records@academia.test"}},
		Subject:    "hod saved marks_edited.xlsx",
		Categories: []string{"academics", "export"},
	}
	xlsx := "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	require.NoError(t, msg.Attach(bytes.NewReader([]byte("PK\x03\x04")), "marks_edited.xlsx", xlsx))
	require.NoError(t, svc.send(msg))

	require.Len(t, api.reqs, 1)
	req := api.reqs[0]
	assert.Equal(t, rest.Method(http.MethodPost), req.Method)
	assert.True(t, strings.HasSuffix(req.BaseURL, endpoint))
	assert.Equal(t, "Bearer sg-key", req.Headers["Authorization"])

	var body sgBody
	require.NoError(t, json.Unmarshal(req.Body, &body))
	require.Len(t, body.Personalizations, 1)
	assert.Equal(t, "[Academia] hod saved marks_edited.xlsx", body.Personalizations[0].Subject)
	assert.Equal(t, "records@academia.test", body.Personalizations[0].To[0].Email)
	assert.Equal(t, []string{"academics", "export"}, body.Categories)

	require.Len(t, body.Content, 1, "attachment-only messages get a text part")
	assert.Equal(t, "text/plain", body.Content[0].Type)
	assert.Equal(t, "Attached: marks_edited.xlsx", body.Content[0].Value)

	require.Len(t, body.Attachments, 1)
	assert.Equal(t, "marks_edited.xlsx", body.Attachments[0].Filename)
	assert.Equal(t, xlsx, body.Attachments[0].Type)
	assert.Equal(t, msg.Attachments[0].Content.String(), body.Attachments[0].Content)
}

func TestSendgridService_send_Skipped(t *testing.T) {
	svc, api := newTestSendgrid(http.StatusAccepted)

	tests := []struct {
		name string
		msg  core.EmailMessage
	}{
		{name: "no recipients", msg: core.EmailMessage{Subject: "x", TextContent: "x"}},
		{name: "nothing to deliver", msg: core.EmailMessage{To: []mail.Address{{Address: "a@b.test"}}, Subject: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, svc.send(tt.msg))
		})
	}
	assert.Empty(t, api.reqs)
}

func TestSendgridService_send_Rejected(t *testing.T) {
	svc, _ := newTestSendgrid(http.StatusBadRequest)

	err := svc.send(core.EmailMessage{
		To:          []mail.Address{{Address: "records@academia.test"}},
		Subject:     "hod imported marks.xlsx",
		TextContent: "hod imported marks.xlsx",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status: 400")
}
