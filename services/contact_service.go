package services

import (
	"context"
	"regexp"
	"strings"

	apperrors "github.com/vinitha-rv/library-backend/common/errors"
	"github.com/vinitha-rv/library-backend/models"
	"github.com/vinitha-rv/library-backend/repository"
)

var contactEmailPattern = regexp.MustCompile(`.+@.+\..+`)

type ContactService struct {
	repo repository.ContactRepo
}

func NewContactService(repo repository.ContactRepo) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) Submit(ctx context.Context, req models.ContactRequest) (*models.ContactMessage, error) {
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
	}
	if msg.Name == "" || msg.Email == "" || msg.Message == "" {
		return nil, apperrors.BadRequest("Name, email and message are required.")
	}
	if !contactEmailPattern.MatchString(msg.Email) {
		return nil, apperrors.BadRequest("Invalid email")
	}
	if msg.Subject == "" {
		msg.Subject = models.DefaultContactSubject
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, apperrors.Internal("Failed to send message", err)
	}
	return msg, nil
}
