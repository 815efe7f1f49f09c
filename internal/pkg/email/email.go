// Package email sends the welcome mail over SMTP. It implements the same
// fire-and-forget contract as the webhook notifier.
package email

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool   // implicit TLS (port 465); otherwise STARTTLS when offered
	PortalURL string // linked from the mail body
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`<html>
<body>
	<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
		<h2 style="color: #333;">Welcome to PlacementPrep!</h2>
		<p>Hello {{.Name}},</p>
		<p>Your account is ready. Browse interview experiences by company, rate how hard the interviews were and share what you were asked.</p>
		{{if .PortalURL}}<p><a href="{{.PortalURL}}">Open PlacementPrep</a></p>{{end}}
		<p>Best of luck with your placements,<br>The PlacementPrep Team</p>
	</div>
</body>
</html>`))

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer delivers welcome mails. Failures are logged and never reach the caller.
type Mailer struct {
	config SMTPConfig
	logger zerolog.Logger
	send   sendFunc
}

// NewMailer creates a Mailer
func NewMailer(config SMTPConfig, logger zerolog.Logger) *Mailer {
	m := &Mailer{
		config: config,
		logger: logger.With().Str("component", "mailer").Logger(),
	}
	m.send = m.sendSMTP
	return m
}

// SendWelcome implements webhook.Notifier
func (m *Mailer) SendWelcome(toEmail, toName string) {
	if m.config.Host == "" {
		m.logger.Warn().Str("toEmail", toEmail).Msg("SMTP not configured - welcome email not sent")
		return
	}
	go func() {
		if err := m.sendWelcome(toEmail, toName); err != nil {
			m.logger.Warn().Err(err).Str("toEmail", toEmail).Msg("Welcome email failed")
			return
		}
		m.logger.Debug().Str("toEmail", toEmail).Msg("Welcome email sent")
	}()
}

func (m *Mailer) sendWelcome(toEmail, toName string) error {
	msg, err := m.compose(toEmail, toName)
	if err != nil {
		return err
	}
	var a smtp.Auth
	if m.config.Username != "" {
		a = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}
	addr := m.config.Host + ":" + strconv.Itoa(m.config.Port)
	return m.send(addr, a, m.config.FromEmail, []string{toEmail}, msg)
}

// compose renders the full RFC 5322 message
func (m *Mailer) compose(toEmail, toName string) ([]byte, error) {
	if strings.ContainsAny(toEmail, "\r\n") {
		return nil, fmt.Errorf("invalid recipient %q", toEmail)
	}
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, struct{ Name, PortalURL string }{toName, m.config.PortalURL}); err != nil {
		return nil, fmt.Errorf("failed to render welcome email: %w", err)
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", mime.QEncoding.Encode("utf-8", m.config.FromName), m.config.FromEmail)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", "Welcome to PlacementPrep"))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func (m *Mailer) sendSMTP(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	if !m.config.UseTLS {
		if err := smtp.SendMail(addr, a, from, to, msg); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	client, err := smtp.NewClient(conn, m.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	if a != nil {
		if err := client.Auth(a); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}
	if err := client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return fmt.Errorf("failed to set recipient: %w", err)
		}
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return client.Quit()
}
