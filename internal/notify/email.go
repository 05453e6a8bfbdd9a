package notify

import (
	"bytes"
	"context"
	"html/template"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/catering-booking/internal/models"
	"github.com/BruksfildServices01/catering-booking/internal/validators"
)

type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

var emailTmpl = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <h2>{{.Title}}</h2>
  <p>{{.Body}}</p>
  {{- if .Link}}
  <p><a href="{{.Link}}">{{.Link}}</a></p>
  {{- end}}
</body>
</html>`))

// Email resolves the customer's address from the users table; admin messages go to the
// configured admin addresses.
type Email struct {
	db          *gorm.DB
	mailer      Mailer
	adminEmails []string
	// nil disables the domain check
	domains *validators.DomainChecker
}

func NewEmail(db *gorm.DB, mailer Mailer, adminEmails []string, verifyDomain bool) *Email {
	s := &Email{db: db, mailer: mailer, adminEmails: adminEmails}
	if verifyDomain {
		s.domains = validators.NewDomainChecker()
	}
	return s
}

func (s *Email) Name() string { return "email" }

func (s *Email) Send(ctx context.Context, msg Message) error {
	to := s.adminEmails
	if msg.UserID != nil {
		var u models.User
		if err := s.db.WithContext(ctx).Select("email").First(&u, "id = ?", *msg.UserID).Error; err != nil {
			return err
		}
		to = []string{u.Email}
	}

	to = s.recipients(to)
	if len(to) == 0 {
		return nil
	}

	body, err := render(msg)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, to, msg.Title, body)
}

func render(msg Message) (string, error) {
	link, _ := msg.Metadata["link"].(string)

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, struct {
		Title, Body, Link string
	}{msg.Title, msg.Body, link}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Email) recipients(to []string) []string {
	out := make([]string, 0, len(to))
	for _, addr := range to {
		addr = validators.NormalizeEmail(addr)
		if addr == "" {
			continue
		}
		if s.domains != nil && !s.domains.Deliverable(addr) {
			continue
		}
		out = append(out, addr)
	}
	return out
}
