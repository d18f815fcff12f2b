package service

import (
	"context"
	"errors"

	"storefront/internal/model"
	"storefront/internal/repository"
)

var ErrNotOrderOwner = errors.New("order belongs to another user")

type OrderService interface {
	ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error)
	GetUserOrder(ctx context.Context, userID, orderID string) (*model.Order, error)
}

type orderServiceImpl struct {
	orderRepo repository.OrderRepository
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderServiceImpl{
		orderRepo: orderRepo,
	}
}

func (s *orderServiceImpl) ListUserOrders(ctx context.Context, userID string) ([]*model.Order, error) {
	return s.orderRepo.ListByUser(ctx, userID)
}

func (s *orderServiceImpl) GetUserOrder(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, ErrNotOrderOwner
	}
	return order, nil
}
