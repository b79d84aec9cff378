// Package mailer delivers verification codes by email.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"gameon/config"
)

const subject = "Your GameOn Verification Code"

type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

// New returns an SMTP sender when a mail server is configured and a
// logging sender otherwise.
func New(cfg *config.Config) Sender {
	if !cfg.SMTPEnabled() {
		log.Println("[Mailer] EMAIL_SERVER_HOST not set, verification codes will be logged")
		return LogSender{}
	}
	return &SMTPSender{
		Addr:     net.JoinHostPort(cfg.EmailHost, strconv.Itoa(cfg.EmailPort)),
		Host:     cfg.EmailHost,
		Username: cfg.EmailUser,
		Password: cfg.EmailPassword,
		From:     cfg.EmailFrom,
	}
}

// LogSender prints codes to the server log. Development only.
type LogSender struct{}

func (LogSender) SendOTP(_ context.Context, to, code string) error {
	log.Println("------------------------------------")
	log.Printf("[DEV MODE] OTP for %s: %s", to, code)
	log.Println("------------------------------------")
	return nil
}

type SMTPSender struct {
	Addr     string
	Host     string
	Username string
	Password string
	From     string

	// send defaults to smtp.SendMail.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (s *SMTPSender) SendOTP(ctx context.Context, to, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg, err := BuildMessage(s.From, to, code, time.Now())
	if err != nil {
		return fmt.Errorf("build otp email: %w", err)
	}

	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	send := s.send
	if send == nil {
		send = smtp.SendMail
	}
	if err := send(s.Addr, auth, envelopeAddress(s.From), []string{to}, msg); err != nil {
		return fmt.Errorf("send otp email to %s: %w", to, err)
	}
	return nil
}

// envelopeAddress extracts the bare address from a display form such as
// `"Name" <a@b.c>`.
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return strings.TrimSpace(from)
}

// BuildMessage renders a multipart/alternative message with text and HTML
// bodies.
func BuildMessage(from, to, code string, now time.Time) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	parts := []struct {
		contentType string
		content     string
	}{
		{"text/plain; charset=UTF-8", textBody(code)},
		{"text/html; charset=UTF-8", htmlBody(code)},
	}
	for _, p := range parts {
		w, err := mw.CreatePart(textproto.MIMEHeader{"Content-Type": {p.contentType}})
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "Date: %s\r\n", now.Format(time.RFC1123Z))
	msg.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mw.Boundary())
	msg.Write(body.Bytes())
	return msg.Bytes(), nil
}

func textBody(code string) string {
	return "Your verification code is: " + code
}

func htmlBody(code string) string {
	return `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #2563EB;">Welcome to GameOn!</h2>
  <p>Your verification code is:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 2px; color: #1E293B; background: #F1F5F9; padding: 10px 20px; display: inline-block; border-radius: 4px;">` + code + `</p>
  <p>This code will expire in 10 minutes.</p>
  <p style="color: #64748B; font-size: 14px;">If you didn't request this code, you can ignore this email.</p>
</div>`
}
