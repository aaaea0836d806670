package service

import (
	"context"
	"strings"
	"unicode/utf8"

	apperrors "github.com/folio-labs/portfolio-server/internal/errors"
	"github.com/folio-labs/portfolio-server/internal/mail"
	"github.com/folio-labs/portfolio-server/internal/model"
	"github.com/folio-labs/portfolio-server/internal/util"
)

const (
	maxContactNameLength    = 200
	maxContactMessageLength = 5000
)

// ContactService forwards contact form messages to the site owner. A nil
// sender means mail is not configured.
type ContactService struct {
	sender mail.Sender
}

func NewContactService(sender mail.Sender) *ContactService {
	return &ContactService{sender: sender}
}

func (s *ContactService) Send(ctx context.Context, msg model.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = util.NormalizeEmail(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	errs := fieldErrors{}
	if msg.Name == "" {
		errs.add("name", "is required")
	} else if utf8.RuneCountInString(msg.Name) > maxContactNameLength {
		errs.add("name", "is too long")
	}
	if !util.IsValidEmail(msg.Email) {
		errs.add("email", "must be a valid email address")
	}
	if msg.Message == "" {
		errs.add("message", "is required")
	} else if utf8.RuneCountInString(msg.Message) > maxContactMessageLength {
		errs.add("message", "is too long")
	}
	if err := errs.err(); err != nil {
		return err
	}

	if s.sender == nil {
		return apperrors.Unavailable("Contact form")
	}
	if err := s.sender.SendContact(ctx, msg); err != nil {
		return apperrors.External("mail", err)
	}
	return nil
}
