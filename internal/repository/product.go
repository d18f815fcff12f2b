package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storefront/internal/model"
)

// ProductQuery captures the catalog browse filters: keyword search,
// category/brand narrowing, price bounds, pagination.
type ProductQuery struct {
	Keyword  string
	Category string
	Brand    string
	PriceMin string
	PriceMax string
	Page     int
	PerPage  int
}

type ProductRepository interface {
	Seed(ctx context.Context) error
	List(ctx context.Context, query ProductQuery) ([]*model.Product, int64, error)
	FindByID(ctx context.Context, productID string) (*model.Product, error)
	FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, productID string) error
	AdjustStock(ctx context.Context, tx *gorm.DB, productID string, delta int) error
	Brands(ctx context.Context, category string) ([]string, error)
}

type productRepoImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepoImpl{
		db: db,
	}
}

// Seed inserts a starter catalog for development; existing rows win.
func (r *productRepoImpl) Seed(ctx context.Context) error {
	products := []model.Product{
		{ID: "phone-aurora-5g", Name: "Aurora 5G Phone", Description: "6.1in OLED, 128GB", Price: decimal.NewFromInt(499), Stock: 25, Category: "Mobiles", Brand: "Aurora"},
		{ID: "laptop-drift-14", Name: "Drift 14 Laptop", Description: "14in ultrabook, 16GB RAM", Price: decimal.NewFromInt(899), Stock: 10, Category: "Laptops", Brand: "Drift"},
		{ID: "buds-echo-mini", Name: "Echo Mini Earbuds", Description: "Wireless earbuds with case", Price: decimal.NewFromFloat(59.99), Stock: 60, Category: "Audio", Brand: "Echo"},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error
}

func (r *productRepoImpl) List(ctx context.Context, query ProductQuery) ([]*model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})

	if query.Keyword != "" {
		q = q.Where("name LIKE ?", "%"+query.Keyword+"%")
	}
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.Brand != "" {
		q = q.Where("brand = ?", query.Brand)
	}
	if query.PriceMin != "" {
		q = q.Where("price >= ?", query.PriceMin)
	}
	if query.PriceMax != "" {
		q = q.Where("price <= ?", query.PriceMax)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if query.PerPage > 0 {
		page := query.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * query.PerPage).Limit(query.PerPage)
	}

	var products []*model.Product
	err := q.Preload("Images").
		Order("created_at DESC").
		Find(&products).Error

	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepoImpl) FindByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Images").
		Where("id = ?", productID).
		First(&product).Error

	if err != nil {
		return nil, err
	}

	return &product, nil
}

func (r *productRepoImpl) FindMany(ctx context.Context, productIDs []string) ([]*model.Product, error) {
	var products []*model.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", productIDs).
		Find(&products).
		Error

	if err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepoImpl) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepoImpl) Update(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(product).Error
}

func (r *productRepoImpl) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", productID).Delete(&model.Product{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// AdjustStock applies a stock delta inside the caller's transaction,
// refusing to go below zero.
func (r *productRepoImpl) AdjustStock(ctx context.Context, tx *gorm.DB, productID string, delta int) error {
	result := tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", productID, delta).
		Update("stock", gorm.Expr("stock + ?", delta))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (r *productRepoImpl) Brands(ctx context.Context, category string) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).Distinct("brand")
	if category != "" {
		q = q.Where("category = ?", category)
	}

	var brands []string
	if err := q.Pluck("brand", &brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}
