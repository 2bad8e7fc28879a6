package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/talentexcel/talentexcel-api/internal/core"
	"github.com/talentexcel/talentexcel-api/internal/domain/model"
	apperrors "github.com/talentexcel/talentexcel-api/internal/errors"
)

// ContactServiceOptions groups dependencies for ContactService.
type ContactServiceOptions struct {
	Repo   core.ContactRepository // Required: contact message repository
	Logger *slog.Logger           // Optional: structured logger
}

// ContactService stores messages from the public contact form and lets
// admins review them.
type ContactService struct {
	repo   core.ContactRepository
	logger *slog.Logger
}

// NewContactService constructs a new ContactService.
func NewContactService(opts ContactServiceOptions) (*ContactService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ContactRepository is required")
	}
	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "contact_service")
	}
	return &ContactService{repo: opts.Repo, logger: logger}, nil
}

// Submit stores a contact form message.
func (s *ContactService) Submit(
	ctx context.Context,
	req *model.CreateContactMessageRequest,
) (*model.ContactMessage, error) {
	if req == nil {
		return nil, apperrors.Validation("contact message request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	msg, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "contact message received", "id", msg.ID)
	}
	return msg, nil
}

// List returns a page of messages, newest first.
func (s *ContactService) List(ctx context.Context, limit, offset int) ([]*model.ContactMessage, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	msgs, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return msgs, nil
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	if !ok {
		return apperrors.NotFound("contact message not found")
	}
	return nil
}
