// Package mail dispatches rendered emails over SMTP.
package mail

import (
	"context"

	gomail "github.com/wneessen/go-mail"

	"github.com/vibast-solutions/ms-go-adminpanel/app/entity"
	"github.com/vibast-solutions/ms-go-adminpanel/app/view"
	"github.com/vibast-solutions/ms-go-adminpanel/config"
)

type SMTPMailer struct {
	client *gomail.Client
	cfg    config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.SMTPPort),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPMailer{client: client, cfg: cfg}, nil
}

// SendPasswordReset renders the reset email template and sends it to the
// user's address.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, user *entity.User, actionLink string) error {
	body, err := view.RenderEmail("reset_password.html", view.ResetEmail{
		User:       user,
		ActionLink: actionLink,
	})
	if err != nil {
		return err
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.cfg.FromName, m.cfg.FromAddress); err != nil {
		return err
	}
	if err := msg.AddToFormat(user.Name, user.Email); err != nil {
		return err
	}
	msg.Subject(m.cfg.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, body)

	return m.client.DialAndSendWithContext(ctx, msg)
}
