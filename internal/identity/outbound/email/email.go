package email

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shandysiswandi/vendorauth/internal/identity/usecase"
	"github.com/shandysiswandi/vendorauth/internal/pkg/instrument"
	"github.com/shandysiswandi/vendorauth/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

const otpSubject = "Vendor Login OTP - Vendor Onboarding Portal"

const otpText = `Dear {{.Name}},

Welcome to the Vendor Onboarding Portal!

Your One-Time Password (OTP) for login is: {{.Code}}

This OTP is valid for {{.Minutes}} minutes only. Please do not share this code with anyone.

If you did not request this OTP, please ignore this email.

Best regards,
Vendor Onboarding Team

Note: This is an automated email. Please do not reply to this message.
`

const otpHTML = `<p>Dear {{.Name}},</p>
<p>Welcome to the Vendor Onboarding Portal!</p>
<p>Your One-Time Password (OTP) for login is: <strong>{{.Code}}</strong></p>
<p>This OTP is valid for {{.Minutes}} minutes only. Please do not share this code with anyone.</p>
<p>If you did not request this OTP, please ignore this email.</p>
<p>Best regards,<br>Vendor Onboarding Team</p>
<p><small>Note: This is an automated email. Please do not reply to this message.</small></p>
`

type otpData struct {
	Name    string
	Code    string
	Minutes int
}

type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
	text   *texttemplate.Template
	html   *htmltemplate.Template
}

func New(client mail.Mail, ins instrument.Instrumentation) (*Mail, error) {
	text, err := texttemplate.New("otp.txt").Option("missingkey=zero").Parse(otpText)
	if err != nil {
		return nil, err
	}

	html, err := htmltemplate.New("otp.html").Option("missingkey=zero").Parse(otpHTML)
	if err != nil {
		return nil, err
	}

	return &Mail{client: client, ins: ins, text: text, html: html}, nil
}

func (m *Mail) SendOTP(ctx context.Context, in usecase.OTPDelivery) error {
	ctx, span := m.ins.Tracer("identity.outbound.email").Start(ctx, "SendOTP")
	defer span.End()

	msg, err := m.render(in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if err := m.client.Send(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (m *Mail) render(in usecase.OTPDelivery) (mail.Message, error) {
	data := otpData{Name: in.ContextLabel, Code: in.Code, Minutes: int(in.TTL.Minutes())}

	var text bytes.Buffer
	if err := m.text.Execute(&text, data); err != nil {
		return mail.Message{}, err
	}

	var html bytes.Buffer
	if err := m.html.Execute(&html, data); err != nil {
		return mail.Message{}, err
	}

	return mail.Message{
		To:       []string{in.Email},
		Subject:  otpSubject,
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}
