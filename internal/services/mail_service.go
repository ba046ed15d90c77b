// services/mail_service.go
package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"go.uber.org/zap"

	"cogniseguros/internal/config"
)

type IMailService interface {
	SendWelcome(to, name string) error
	SendVerificationCode(to, code string) error
}

// MailBranding is rendered in every email.
type MailBranding struct {
	AppName    string
	AppBaseURL string
	CodeTTL    time.Duration
}

type smtpMailService struct {
	cfg      config.SMTPConfig
	brand    MailBranding
	htmlTpl  *template.Template
	textTpl  *texttemplate.Template
	dialTime time.Duration
}

func NewSMTPMailService(cfg config.SMTPConfig, brand MailBranding) (IMailService, error) {
	htmlTpl, err := template.New("html").Parse(baseHTMLTemplate)
	if err != nil {
		return nil, err
	}
	textTpl, err := texttemplate.New("text").Parse(plainTextTemplate)
	if err != nil {
		return nil, err
	}
	return &smtpMailService{
		cfg:      cfg,
		brand:    brand,
		htmlTpl:  htmlTpl,
		textTpl:  textTpl,
		dialTime: 10 * time.Second,
	}, nil
}

// ------------------- Public API -------------------

func (s *smtpMailService) SendWelcome(to, name string) error {
	subject := fmt.Sprintf("Bienvenido a %s", s.brand.AppName)

	html, text, err := s.renderEmail(s.welcomeData(name))
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func (s *smtpMailService) welcomeData(name string) EmailData {
	greeting := "Hola"
	if name = strings.TrimSpace(name); name != "" {
		greeting += " " + name
	}
	return EmailData{
		Title:     fmt.Sprintf("Bienvenido a %s", s.brand.AppName),
		Intro:     greeting + ", tu cuenta está lista y tu período de prueba ya comenzó.",
		ButtonURL: s.brand.AppBaseURL,
		ButtonTxt: "Ingresar",
		AppName:   s.brand.AppName,
		AppURL:    s.brand.AppBaseURL,
		Year:      time.Now().Year(),
	}
}

func (s *smtpMailService) SendVerificationCode(to, code string) error {
	subject := fmt.Sprintf("Tu código de acceso a %s", s.brand.AppName)

	html, text, err := s.renderEmail(EmailData{
		Title:   "Código de verificación",
		Intro:   verificationIntro(s.brand.CodeTTL),
		Code:    code,
		AppName: s.brand.AppName,
		AppURL:  s.brand.AppBaseURL,
		Year:    time.Now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(to, subject, html, text)
}

func verificationIntro(ttl time.Duration) string {
	minutes := int(ttl.Minutes())
	if minutes <= 0 {
		minutes = 10
	}
	return fmt.Sprintf("Usá este código para ingresar. Vence en %d minutos. Si no lo pediste, ignorá este mensaje.", minutes)
}

// ------------------- Rendering -------------------

type EmailData struct {
	Title     string
	Intro     string
	Code      string
	ButtonURL string
	ButtonTxt string
	AppName   string
	AppURL    string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 0; background: #f1f5f9; color: #0f172a;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif; }
    .wrapper { width: 100%; padding: 32px 12px; box-sizing: border-box; }
    .container { max-width: 560px; margin: 0 auto; background: #ffffff; border-radius: 12px;
      box-shadow: 0 8px 30px rgba(15, 23, 42, 0.08); overflow: hidden; }
    .header { padding: 24px 28px; border-bottom: 1px solid #e2e8f0; font-weight: 700;
      letter-spacing: 0.5px; color: #1d4ed8; text-transform: uppercase; }
    .hero { padding: 32px 28px; }
    h1 { margin: 0 0 12px; font-size: 24px; }
    p { margin: 0 0 16px; line-height: 1.6; color: #475569; }
    .code { font-size: 32px; font-weight: 700; letter-spacing: 8px; text-align: center;
      padding: 16px; margin: 24px 0; background: #eff6ff; border-radius: 8px; color: #1e3a8a; }
    .btn { display: inline-block; padding: 14px 28px; background: #2563eb; color: #ffffff !important;
      text-decoration: none; border-radius: 8px; font-weight: 600; }
    .muted { color: #94a3b8; font-size: 13px; word-break: break-all; }
    .footer { padding: 20px 28px; color: #64748b; font-size: 12px; text-align: center;
      border-top: 1px solid #e2e8f0; background: #f8fafc; }
  </style>
</head>
<body>
  <div class="wrapper">
    <div class="container">
      <div class="header">{{.AppName}}</div>
      <div class="hero">
        <h1>{{.Title}}</h1>
        <p>{{.Intro}}</p>
        {{if .Code}}<div class="code">{{.Code}}</div>{{end}}
        {{if .ButtonURL}}
          <p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>
          <p class="muted">Si el botón no funciona, copiá este enlace: {{.ButtonURL}}</p>
        {{end}}
      </div>
      <div class="footer">© {{.Year}} {{.AppName}}{{if .AppURL}} · <a href="{{.AppURL}}">{{.AppURL}}</a>{{end}}</div>
    </div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{if .Code}}
Código: {{.Code}}
{{end}}{{if .ButtonURL}}
Abrí este enlace:
{{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}{{if .AppURL}} {{.AppURL}}{{end}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer

	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

// ------------------- SMTP Send -------------------

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("alt_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	write("\r\n")

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(to, subject, htmlBody, textBody string) error {
	msg := s.buildMessage(to, subject, htmlBody, textBody)
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}
	dialer := &net.Dialer{Timeout: s.dialTime}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		// SMTPS (implicit TLS, usually port 465)
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.Dial("tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.BEncoding.Encode("UTF-8", name), s.cfg.From)
}

// logMailService stands in when SMTP is not configured. Codes are only
// written to the log in development.
type logMailService struct {
	logger      *zap.Logger
	development bool
}

func NewLogMailService(logger *zap.Logger, development bool) IMailService {
	return &logMailService{logger: logger, development: development}
}

func (l *logMailService) SendWelcome(to, name string) error {
	l.logger.Info("Welcome mail not sent, SMTP disabled", zap.String("to", to))
	return nil
}

func (l *logMailService) SendVerificationCode(to, code string) error {
	fields := []zap.Field{zap.String("to", to)}
	if l.development {
		fields = append(fields, zap.String("code", code))
	}
	l.logger.Info("Verification code not mailed, SMTP disabled", fields...)
	return nil
}
