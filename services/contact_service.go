package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resort-backend/notify"
)

var ErrNoStaffAddress = errors.New("staff_email_missing")

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

// ContactService relays contact-form messages to the staff inbox. Unlike
// booking notifications this is synchronous: the sender sees the failure.
type ContactService struct {
	Mailer     notify.Mailer
	StaffEmail string
}

func NewContactService(m notify.Mailer, staffEmail string) *ContactService {
	return &ContactService{Mailer: m, StaffEmail: staffEmail}
}

func (s *ContactService) Send(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)
	if err := validateStruct(msg); err != nil {
		return err
	}
	if s.StaffEmail == "" {
		return ErrNoStaffAddress
	}
	return s.Mailer.Send(ctx, notify.Message{
		To:      s.StaffEmail,
		Subject: fmt.Sprintf("New message from %s", msg.Name),
		Text:    fmt.Sprintf("From: %s (%s)\n\n%s", msg.Name, msg.Email, msg.Message),
	})
}
