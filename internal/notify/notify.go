// Package notify emails subscribers about newly found postings.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"time"

	"rajobs-backend/internal/records"

	_ "embed"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("rajobs/notify")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Config struct {
	Smtp        SmtpConfig `json:"smtp"`
	Subscribers string     `json:"subscribers"`
}

//go:embed email.tmpl
var emailTmpl string

var messageTmpl = template.Must(template.New("email").Parse(emailTmpl))

type postingView struct {
	records.Record
	HasLink bool
}

type messageData struct {
	Name      string
	UpdatedAt string
	Postings  []postingView
}

func renderMessage(name string, recs []records.Record, at time.Time) ([]byte, error) {
	data := messageData{
		Name:      name,
		UpdatedAt: at.Format("January 2, 2006 15:04 MST"),
	}
	for _, r := range recs {
		data.Postings = append(data.Postings, postingView{
			Record:  r,
			HasLink: r.Link != records.Sentinel,
		})
	}

	var buf bytes.Buffer
	if err := messageTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render email: %w", err)
	}
	return buf.Bytes(), nil
}

// Notifier sends posting digests over smtp.
type Notifier struct {
	config Config
}

func NewNotifier(config Config) Notifier {
	return Notifier{config: config}
}

func (n Notifier) sendTo(ctx context.Context, sub Subscriber, recs []records.Record, at time.Time) error {
	ctx, span := tracer.Start(ctx, "sendTo")
	defer span.End()
	span.SetAttributes(attribute.String("email", sub.Email))

	body, err := renderMessage(sub.Name, recs, at)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("RA Jobs <%s>", n.config.Smtp.EmailAddress)
	mail.To = []string{sub.Email}
	mail.Subject = fmt.Sprintf("%d new research positions", len(recs))
	mail.HTML = body

	err = mail.Send(
		fmt.Sprintf("%s:%d", n.config.Smtp.Server, n.config.Smtp.Port),
		smtp.PlainAuth("", n.config.Smtp.EmailAddress, n.config.Smtp.Password, n.config.Smtp.Server),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}

// Send mails the digest to every subscriber. Delivery failures are
// logged per recipient and joined into one error so a single bad
// address does not block the rest of the list.
func (n Notifier) Send(ctx context.Context, recs []records.Record) error {
	ctx, span := tracer.Start(ctx, "Send")
	defer span.End()

	if len(recs) == 0 {
		return nil
	}

	subs, err := ReadSubscribers(n.config.Subscribers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	now := time.Now()
	var errlist []error
	for _, sub := range subs {
		err := n.sendTo(ctx, sub, recs, now)
		if err != nil {
			slog.ErrorContext(ctx, "failed to notify subscriber", "email", sub.Email, "err", err)
			errlist = append(errlist, fmt.Errorf("%s: %w", sub.Email, err))
			continue
		}
		slog.InfoContext(ctx, "notified subscriber", "email", sub.Email, "postings", len(recs))
	}
	return errors.Join(errlist...)
}
