package blog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rahulvarma/shopsphere-backend/pkg/db/models"
	pkgerrors "github.com/rahulvarma/shopsphere-backend/pkg/errors"
)

// Service exposes storefront blog reads.
type Service interface {
	List(ctx context.Context, page, perPage int) ([]models.BlogPost, int64, error)
	GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error)
}

type service struct {
	repo BlogRepository
}

// NewService builds a blog service backed by the provided repository.
func NewService(repo BlogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("blog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, page, perPage int) ([]models.BlogPost, int64, error) {
	if perPage <= 0 || perPage > 50 {
		perPage = 10
	}
	if page <= 0 {
		page = 1
	}

	posts, total, err := s.repo.ListPublished(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing posts")
	}
	return posts, total, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*models.BlogPost, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "post slug is required")
	}
	post, err := s.repo.FindPublishedBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "post not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading post")
	}
	return post, nil
}
