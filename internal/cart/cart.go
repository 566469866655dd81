// Package cart is the client-side shopping cart. It is only persisted when
// Save is called.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/01moynul/sweetshop-golang/internal/localstore"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// KeyCart is the local store key of the cart.
const KeyCart = "ss_cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmpty           = errors.New("cart is empty")
)

// Line is one sweet in the cart with the price seen when it was added.
type Line struct {
	SweetID  int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    *string `json:"image,omitempty"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StockError is returned when an add would exceed the stock snapshot.
type StockError struct {
	Name      string
	Requested int
	Available int
	InCart    int
}

func (e *StockError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("Cannot add %d kg. Only %d kg of %s left in stock!", e.Requested, e.Available-e.InCart, e.Name)
	}
	return fmt.Sprintf("Cannot add %d kg. Only %d kg of %s is available.", e.Requested, e.Available, e.Name)
}

// Checkouter buys a set of lines in one call.
type Checkouter interface {
	Checkout(ctx context.Context, lines []models.CheckoutLine) ([]models.Sweet, error)
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add puts qty of sweet in the cart, merging with an existing line. The
// sweet's Quantity is the stock snapshot the total may not exceed.
func (c *Cart) Add(sweet models.Sweet, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.lines {
		if c.lines[i].SweetID != sweet.ID {
			continue
		}
		total := c.lines[i].Quantity + qty
		if total > sweet.Quantity {
			return &StockError{Name: sweet.Name, Requested: qty, Available: sweet.Quantity, InCart: c.lines[i].Quantity}
		}
		c.lines[i].Quantity = total
		return nil
	}

	if qty > sweet.Quantity {
		return &StockError{Name: sweet.Name, Requested: qty, Available: sweet.Quantity}
	}
	c.lines = append(c.lines, Line{
		SweetID:  sweet.ID,
		Name:     sweet.Name,
		Price:    sweet.Price,
		Image:    sweet.Image,
		Quantity: qty,
	})
	return nil
}

// Remove drops the line for id and reports whether there was one.
func (c *Cart) Remove(id int64) bool {
	for i, line := range c.lines {
		if line.SweetID == id {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// Total is the sum of every line's subtotal.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// TotalItems is the sum of quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

// Checkout sends the whole cart as one purchase. On failure the cart is
// unchanged; on success it is emptied and the updated sweets are returned.
func (c *Cart) Checkout(ctx context.Context, co Checkouter) ([]models.Sweet, error) {
	if c.Empty() {
		return nil, ErrEmpty
	}

	lines := make([]models.CheckoutLine, 0, len(c.lines))
	for _, line := range c.lines {
		lines = append(lines, models.CheckoutLine{SweetID: line.SweetID, Quantity: line.Quantity})
	}

	sweets, err := co.Checkout(ctx, lines)
	if err != nil {
		return nil, err
	}
	c.Clear()
	return sweets, nil
}

// Load reads the saved cart. A missing cart loads empty.
func Load(ls *localstore.Store) (*Cart, error) {
	var lines []Line
	if err := ls.Get(KeyCart, &lines); err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return New(), nil
		}
		return nil, err
	}
	return &Cart{lines: lines}, nil
}

// Save writes the cart.
func (c *Cart) Save(ls *localstore.Store) error {
	lines := c.lines
	if lines == nil {
		lines = []Line{}
	}
	return ls.Set(KeyCart, lines)
}
