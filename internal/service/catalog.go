package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"storefront/internal/model"
	"storefront/internal/repository"
)

type CatalogService interface {
	ListProducts(ctx context.Context, query repository.ProductQuery) ([]*model.Product, int64, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	Brands(ctx context.Context, category string) ([]string, error)
	SubmitReview(ctx context.Context, productID string, user *model.User, rating int, comment string) error
	ListReviews(ctx context.Context, productID string) ([]*model.Review, error)
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
	reviewRepo  repository.ReviewRepository
}

func NewCatalogService(productRepo repository.ProductRepository, reviewRepo repository.ReviewRepository) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context, query repository.ProductQuery) ([]*model.Product, int64, error) {
	if query.PerPage <= 0 {
		query.PerPage = 12
	}
	return s.productRepo.List(ctx, query)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

func (s *catalogServiceImpl) Brands(ctx context.Context, category string) ([]string, error) {
	return s.productRepo.Brands(ctx, category)
}

func (s *catalogServiceImpl) SubmitReview(ctx context.Context, productID string, user *model.User, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}

	review := &model.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		UserID:    user.ID,
		UserName:  user.Name,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviewRepo.Upsert(ctx, review); err != nil {
		return err
	}

	return s.reviewRepo.RefreshProductRating(ctx, productID)
}

func (s *catalogServiceImpl) ListReviews(ctx context.Context, productID string) ([]*model.Review, error) {
	return s.reviewRepo.ListByProduct(ctx, productID)
}
