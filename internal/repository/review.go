package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

type ReviewRepository interface {
	Upsert(ctx context.Context, review *model.Review) error
	ListByProduct(ctx context.Context, productID string) ([]*model.Review, error)
	ListAll(ctx context.Context) ([]*model.Review, error)
	Delete(ctx context.Context, reviewID string) error
	RefreshProductRating(ctx context.Context, productID string) error
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepoImpl{
		db: db,
	}
}

// Upsert keeps one review per (product, user): reviewing again replaces
// the earlier rating and comment.
func (r *reviewRepoImpl) Upsert(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"rating":  review.Rating,
			"comment": review.Comment,
		}),
	}).Create(review).Error
}

func (r *reviewRepoImpl) ListByProduct(ctx context.Context, productID string) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error

	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepoImpl) ListAll(ctx context.Context) ([]*model.Review, error) {
	var reviews []*model.Review
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&reviews).Error

	if err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *reviewRepoImpl) Delete(ctx context.Context, reviewID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", reviewID).
		Delete(&model.Review{})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RefreshProductRating recomputes the denormalized rating columns on
// the product row from its current reviews.
func (r *reviewRepoImpl) RefreshProductRating(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Review{}).
			Where("product_id = ?", productID).
			Count(&count).Error; err != nil {
			return err
		}

		var avg float64
		if count > 0 {
			if err := tx.Model(&model.Review{}).
				Where("product_id = ?", productID).
				Select("AVG(rating)").
				Scan(&avg).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Product{}).
			Where("id = ?", productID).
			Updates(map[string]interface{}{
				"rating":      avg,
				"num_reviews": count,
			}).Error
	})
}
