package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/model"
	"storefront/internal/report"
	"storefront/internal/repository"
)

var ErrInvalidStatus = errors.New("invalid order status")

type ProductInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category"`
	Brand       string   `json:"brand"`
	Images      []string `json:"images"`
}

// AdminService is the back-office surface: CRUD over products, orders,
// users and reviews, plus the report aggregation and export.
type AdminService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, in ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error

	ListOrders(ctx context.Context) ([]*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) (*model.Order, error)
	DeleteOrder(ctx context.Context, orderID string) error

	ListUsers(ctx context.Context) ([]*model.User, error)
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateUser(ctx context.Context, userID, name, email, role string) (*model.User, error)
	DeleteUser(ctx context.Context, userID string) error

	ListReviews(ctx context.Context) ([]*model.Review, error)
	DeleteReview(ctx context.Context, reviewID string) error

	Summary(ctx context.Context) (report.Summary, error)
	WriteReportPDF(ctx context.Context, w io.Writer) error
}

type adminServiceImpl struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	reviewRepo  repository.ReviewRepository
}

func NewAdminService(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	reviewRepo repository.ReviewRepository,
) AdminService {
	return &adminServiceImpl{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		userRepo:    userRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *adminServiceImpl) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	product, err := productFromInput(uuid.NewString(), in)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *adminServiceImpl) UpdateProduct(ctx context.Context, productID string, in ProductInput) (*model.Product, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	product, err := productFromInput(productID, in)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *adminServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.productRepo.Delete(ctx, productID)
}

func (s *adminServiceImpl) ListOrders(ctx context.Context) ([]*model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

func (s *adminServiceImpl) UpdateOrderStatus(ctx context.Context, orderID, status string) (*model.Order, error) {
	switch status {
	case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusShipped, model.OrderStatusDelivered:
	default:
		return nil, ErrInvalidStatus
	}
	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}

func (s *adminServiceImpl) DeleteOrder(ctx context.Context, orderID string) error {
	return s.orderRepo.Delete(ctx, orderID)
}

func (s *adminServiceImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *adminServiceImpl) GetUser(ctx context.Context, userID string) (*model.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

func (s *adminServiceImpl) UpdateUser(ctx context.Context, userID, name, email, role string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if email != "" {
		user.Email = email
	}
	if role != "" {
		if role != model.RoleUser && role != model.RoleAdmin {
			return nil, errors.New("unknown role")
		}
		user.Role = role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, userID string) error {
	return s.userRepo.Delete(ctx, userID)
}

func (s *adminServiceImpl) ListReviews(ctx context.Context) ([]*model.Review, error) {
	return s.reviewRepo.ListAll(ctx)
}

func (s *adminServiceImpl) DeleteReview(ctx context.Context, reviewID string) error {
	return s.reviewRepo.Delete(ctx, reviewID)
}

func (s *adminServiceImpl) Summary(ctx context.Context) (report.Summary, error) {
	products, orders, users, err := s.collections(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	return report.Summarize(products, orders, users), nil
}

func (s *adminServiceImpl) WriteReportPDF(ctx context.Context, w io.Writer) error {
	products, orders, users, err := s.collections(ctx)
	if err != nil {
		return err
	}
	return report.WriteAdminPDF(w, products, orders, users)
}

func (s *adminServiceImpl) collections(ctx context.Context) ([]*model.Product, []*model.Order, []*model.User, error) {
	products, _, err := s.productRepo.List(ctx, repository.ProductQuery{})
	if err != nil {
		return nil, nil, nil, err
	}
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return products, orders, users, nil
}

func productFromInput(id string, in ProductInput) (*model.Product, error) {
	if in.Name == "" {
		return nil, errors.New("name required")
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil {
		return nil, errors.New("invalid price")
	}
	if price.IsNegative() {
		return nil, errors.New("price must be >= 0")
	}
	if in.Stock < 0 {
		return nil, errors.New("stock must be >= 0")
	}

	product := &model.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       price,
		Stock:       in.Stock,
		Category:    in.Category,
		Brand:       in.Brand,
	}
	for _, url := range in.Images {
		product.Images = append(product.Images, model.ProductImage{ProductID: id, URL: url})
	}
	return product, nil
}
