package email

import (
	"context"
	"fmt"
	"net"
	"time"

	"petcircle_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
	baseURL   string
}

// NewSMTPSender creates a sender from the email and notification config.
func NewSMTPSender(cfg config.EmailConfig, appBaseURL string) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		baseURL:   appBaseURL,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

// SendInterventionReceivedEmail implements Sender.
func (s *SMTPSender) SendInterventionReceivedEmail(ctx context.Context, toEmail, coolingUntil string) error {
	data := interventionReceivedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Rehoming request received",
			Heading: "We received your rehoming request",
		},
		Cooling:      coolingUntil != "",
		CoolingUntil: coolingUntil,
	}
	if !data.Cooling {
		data.CTALabel = "Create your listing"
		data.CTAURL = s.baseURL + "/rehome/listing/new"
	}

	content, err := renderEmailTemplate("intervention_received.html", data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectInterventionReceived, content)
}

// SendInterventionProceededEmail implements Sender.
func (s *SMTPSender) SendInterventionProceededEmail(ctx context.Context, toEmail string) error {
	content, err := renderEmailTemplate("intervention_proceeded.html", interventionProceededEmailData{
		baseEmailData: baseEmailData{
			Title:    "Continue your rehoming listing",
			Heading:  "Your listing is ready to create",
			CTALabel: "Create your listing",
			CTAURL:   s.baseURL + "/rehome/listing/new",
		},
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectInterventionProceeded, content)
}

var _ Sender = (*SMTPSender)(nil)
