package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"go.uber.org/zap"
)

type smtpDispatcher struct {
	host   string
	port   string
	from   string
	auth   smtp.Auth
	logger *zap.Logger
}

// NewSMTPDispatcher reads SMTP_HOST, SMTP_PORT, SMTP_FROM, SMTP_USER and
// SMTP_PASSWORD from the environment.
func NewSMTPDispatcher(logger ...*zap.Logger) (Dispatcher, error) {
	l := zap.L().Named("mailer.smtp")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("mailer.smtp")
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST is required")
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		return nil, fmt.Errorf("SMTP_FROM is required")
	}

	var auth smtp.Auth
	if user := os.Getenv("SMTP_USER"); user != "" {
		auth = smtp.PlainAuth("", user, os.Getenv("SMTP_PASSWORD"), host)
	}

	return &smtpDispatcher{
		host:   host,
		port:   port,
		from:   from,
		auth:   auth,
		logger: l,
	}, nil
}

func (d *smtpDispatcher) SendLeaveStatusUpdate(ctx context.Context, recipientEmail, recipientName, leaveTypeLabel, status, comments string) error {
	subject := fmt.Sprintf("Your %s request has been %s", leaveTypeLabel, status)

	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s,\r\n\r\n", recipientName)
	fmt.Fprintf(&body, "Your %s request has been %s.\r\n", leaveTypeLabel, status)
	if comments != "" {
		fmt.Fprintf(&body, "\r\nComments from your approver:\r\n%s\r\n", comments)
	}
	body.WriteString("\r\nThis is an automated message.\r\n")

	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		d.from, recipientEmail, subject, body.String(),
	)

	addr := d.host + ":" + d.port
	if err := smtp.SendMail(addr, d.auth, d.from, []string{recipientEmail}, []byte(msg)); err != nil {
		d.logger.Error("send leave status mail failed",
			zap.String("recipient", recipientEmail),
			zap.Error(err),
		)
		return err
	}

	d.logger.Info("leave status mail sent",
		zap.String("recipient", recipientEmail),
		zap.String("status", status),
	)
	return nil
}
