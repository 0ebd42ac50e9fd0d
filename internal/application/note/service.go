package note

import (
	"context"
	"fmt"
	"time"

	"github.com/hd-notes-api/internal/domain"
	"github.com/hd-notes-api/internal/pkg/id"
	"github.com/hd-notes-api/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldTitle   = "title"
	fieldContent = "content"
)

type Service interface {
	Create(ctx context.Context, userID string, req domain.CreateNoteRequest) (*domain.Note, error)
	List(ctx context.Context, userID string) ([]domain.Note, error)
	Update(ctx context.Context, userID, noteID string, req domain.UpdateNoteRequest) (*domain.Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

type noteStore interface {
	Put(ctx context.Context, n *domain.Note) error
	Get(ctx context.Context, noteID string) (*domain.Note, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Note, error)
	Update(ctx context.Context, noteID string, updates map[string]interface{}) error
	Delete(ctx context.Context, noteID string) error
}

type service struct {
	repo noteStore
}

func NewService(repo noteStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, userID string, req domain.CreateNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	now := time.Now().UTC()
	n := &domain.Note{
		NoteID:    id.New(),
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *service) List(ctx context.Context, userID string) ([]domain.Note, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Update(ctx context.Context, userID, noteID string, req domain.UpdateNoteRequest) (*domain.Note, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%s: %w", err, domain.ErrBadRequest)
	}
	n, err := s.repo.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, fmt.Errorf("not your note: %w", domain.ErrForbidden)
	}
	updates := map[string]interface{}{
		fieldTitle:   req.Title,
		fieldContent: req.Content,
	}
	if err := s.repo.Update(ctx, noteID, updates); err != nil {
		return nil, err
	}
	n.Title = req.Title
	n.Content = req.Content
	n.UpdatedAt = time.Now().UTC()
	return n, nil
}

func (s *service) Delete(ctx context.Context, userID, noteID string) error {
	n, err := s.repo.Get(ctx, noteID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return fmt.Errorf("not your note: %w", domain.ErrForbidden)
	}
	return s.repo.Delete(ctx, noteID)
}
