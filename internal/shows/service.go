package shows

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdelrhman-sys/MoviX-API/internal/apperror"
)

// Service implements add/remove/list for one collection.
type Service struct {
	collection Collection
	repo       Repository
}

func NewService(c Collection, repo Repository) *Service {
	return &Service{collection: c, repo: repo}
}

func (s *Service) Collection() Collection {
	return s.collection
}

func (s *Service) Add(ctx context.Context, userID string, e Entry) error {
	e = Entry{
		ShowID:     strings.TrimSpace(e.ShowID),
		ShowType:   strings.TrimSpace(e.ShowType),
		ShowPoster: strings.TrimSpace(e.ShowPoster),
		ShowName:   strings.TrimSpace(e.ShowName),
	}

	for _, f := range []struct{ name, value string }{
		{"showId", e.ShowID},
		{"showType", e.ShowType},
		{"showPoster", e.ShowPoster},
		{"showName", e.ShowName},
	} {
		if f.value == "" {
			return apperror.Validation(f.name, f.name+" is required")
		}
	}

	if err := s.repo.Add(ctx, userID, e); err != nil {
		return apperror.Store("Error adding show", err)
	}
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, showID, showType string) error {
	showID = strings.TrimSpace(showID)
	showType = strings.TrimSpace(showType)

	if showID == "" {
		return apperror.Validation("showId", "showId is required")
	}
	if showType == "" {
		return apperror.Validation("type", "type is required")
	}

	if err := s.repo.Remove(ctx, userID, showID, showType); err != nil {
		return apperror.Store("Error removing show", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, apperror.Store("Error loading shows", err)
	}
	return entries, nil
}

// DeleteAll empties the collection for userID. Only account deletion
// calls it, so the raw error is returned for the caller to classify.
func (s *Service) DeleteAll(ctx context.Context, userID string) error {
	if err := s.repo.DeleteAll(ctx, userID); err != nil {
		return fmt.Errorf("shows: clear %s: %w", s.collection, err)
	}
	return nil
}
