package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/cart"
	"storefront/internal/repository"
	"storefront/internal/session"
)

var ErrOutOfStock = errors.New("product out of stock")

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// CartService keeps one cart per session in the session store. Prices
// are snapshotted from the catalog when the item is added.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Add(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error)
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error)
	Remove(ctx context.Context, sessionID, productID string) (*cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartServiceImpl struct {
	sessions    session.Store
	productRepo repository.ProductRepository
	ttl         time.Duration
}

func NewCartService(sessions session.Store, productRepo repository.ProductRepository, ttl time.Duration) CartService {
	return &cartServiceImpl{
		sessions:    sessions,
		productRepo: productRepo,
		ttl:         ttl,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	return s.load(ctx, sessionID)
}

func (s *cartServiceImpl) Add(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Stock == 0 {
		return nil, ErrOutOfStock
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0].URL
	}

	item := cart.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Image:     image,
		Stock:     product.Stock,
	}
	if err := c.Add(item); err != nil {
		return nil, err
	}

	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.UpdateQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, sessionID, productID string) (*cart.Cart, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	c.Remove(productID)
	if err := s.save(ctx, sessionID, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *cartServiceImpl) Clear(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, cartKey(sessionID))
}

func (s *cartServiceImpl) load(ctx context.Context, sessionID string) (*cart.Cart, error) {
	raw, err := s.sessions.Get(ctx, cartKey(sessionID))
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	c := &cart.Cart{}
	if raw == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return c, nil
}

func (s *cartServiceImpl) save(ctx context.Context, sessionID string, c *cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.sessions.Set(ctx, cartKey(sessionID), string(raw), s.ttl); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
