package services

import (
	"context"
	"strings"

	"github.com/ypropel/backend/internal/app/models"
	"github.com/ypropel/backend/internal/app/repositories"
)

// LookupService reads the reference tables behind the form dropdowns
type LookupService interface {
	List(ctx context.Context, kind string, filters map[string]string) ([]*models.LookupItem, error)
	Create(ctx context.Context, kind, name string) (*models.LookupItem, error)
}

type lookupServiceImpl struct {
	lookupRepo repositories.LookupRepository
}

// NewLookupService creates a new LookupService
func NewLookupService(lookupRepo repositories.LookupRepository) LookupService {
	return &lookupServiceImpl{lookupRepo: lookupRepo}
}

func (s *lookupServiceImpl) List(ctx context.Context, kind string, filters map[string]string) ([]*models.LookupItem, error) {
	return s.lookupRepo.List(ctx, kind, filters)
}

func (s *lookupServiceImpl) Create(ctx context.Context, kind, name string) (*models.LookupItem, error) {
	return s.lookupRepo.Create(ctx, kind, strings.TrimSpace(name))
}
