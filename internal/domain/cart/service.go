package cart

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/ecostore/backend/internal/domain/catalog"
)

// Service implements cart mutations. Product existence is checked against the
// catalog before any line is written.
type Service struct {
	carts    Repository
	products catalog.Repository
}

// NewService creates a cart Service.
func NewService(carts Repository, products catalog.Repository) *Service {
	return &Service{carts: carts, products: products}
}

// AddItem adds quantity of a product to the user's cart, creating the cart on
// first use. A repeat add of the same product increments the existing line.
func (s *Service) AddItem(ctx context.Context, userID int64, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQty
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}

	cartID, err := s.carts.EnsureCart(ctx, userID)
	if err != nil {
		return errors.Wrap(err, "ensure cart")
	}

	line, err := s.carts.GetLine(ctx, cartID, productID)
	switch {
	case errors.Is(err, ErrLineNotFound):
		return s.carts.InsertLine(ctx, cartID, Line{ProductID: productID, Quantity: quantity})
	case err != nil:
		return errors.Wrap(err, "get cart line")
	}

	return s.carts.UpdateLineQuantity(ctx, cartID, productID, line.Quantity+quantity)
}

// RemoveItem decrements quantity of a product in the user's cart. The line is
// deleted when its quantity drops to zero or below.
func (s *Service) RemoveItem(ctx context.Context, userID int64, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQty
	}

	cartID, err := s.carts.FindCart(ctx, userID)
	if err != nil {
		return err
	}

	line, err := s.carts.GetLine(ctx, cartID, productID)
	if err != nil {
		return err
	}

	remaining := line.Quantity - quantity
	if remaining <= 0 {
		return s.carts.DeleteLine(ctx, cartID, productID)
	}
	return s.carts.UpdateLineQuantity(ctx, cartID, productID, remaining)
}

// Get returns the user's cart contents. A user who never touched their cart
// gets ErrCartNotFound.
func (s *Service) Get(ctx context.Context, userID int64) (*Cart, error) {
	cartID, err := s.carts.FindCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.ListLines(ctx, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart lines")
	}
	return &Cart{UserID: userID, Lines: lines}, nil
}

// Clear removes every line from the user's cart.
func (s *Service) Clear(ctx context.Context, userID int64) error {
	cartID, err := s.carts.FindCart(ctx, userID)
	if err != nil {
		return err
	}
	return s.carts.ClearLines(ctx, cartID)
}
