package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// decrementStock takes qty units of a sweet and writes the matching ledger
// row, all inside tx. The conditional UPDATE is the only stock check: a
// concurrent buyer either sees the decremented row or waits on it.
func (s *Store) decrementStock(ctx context.Context, tx *sql.Tx, userID, sweetID int64, qty int) error {
	if qty < 1 {
		return apperr.Validation("Quantity must be at least 1")
	}

	result, err := tx.ExecContext(ctx,
		"UPDATE sweets SET quantity = quantity - ? WHERE id = ? AND quantity >= ?",
		qty, sweetID, qty)
	if err != nil {
		return apperr.Internal("Error processing purchase", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.Internal("Error processing purchase", err)
	}
	if affected == 0 {
		// Either the sweet is gone or there is not enough of it.
		sweet, err := getSweet(ctx, tx, sweetID)
		if err != nil {
			return err
		}
		return apperr.InsufficientStock(fmt.Sprintf("Insufficient stock for %s", sweet.Name))
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO purchase_history (user_id, sweet_id, quantity, purchase_date)
		VALUES (?, ?, ?, ?)`,
		userID, sweetID, qty, s.now())
	if err != nil {
		return apperr.Internal("Error recording purchase", err)
	}
	return nil
}

// PurchaseSweet decrements the stock of one sweet by qty on behalf of userID
// and records the purchase. Both writes commit together or not at all.
func (s *Store) PurchaseSweet(ctx context.Context, userID, sweetID int64, qty int) (*models.Sweet, error) {
	var updated *models.Sweet
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := s.decrementStock(ctx, tx, userID, sweetID, qty); err != nil {
			return err
		}
		sweet, err := getSweet(ctx, tx, sweetID)
		if err != nil {
			return err
		}
		updated = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RestockSweet adds qty units to a sweet. There is no upper bound.
func (s *Store) RestockSweet(ctx context.Context, sweetID int64, qty int) (*models.Sweet, error) {
	if qty < 1 {
		return nil, apperr.Validation("Quantity must be at least 1")
	}

	var updated *models.Sweet
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, "UPDATE sweets SET quantity = quantity + ? WHERE id = ?", qty, sweetID)
		if err != nil {
			return apperr.Internal("Error processing restock", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return apperr.Internal("Error processing restock", err)
		}
		if affected == 0 {
			return apperr.NotFound("Sweet not found")
		}

		sweet, err := getSweet(ctx, tx, sweetID)
		if err != nil {
			return err
		}
		updated = sweet
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Checkout purchases every line in one transaction. Lines for the same
// sweet are merged first. If any line fails nothing is written.
func (s *Store) Checkout(ctx context.Context, userID int64, lines []models.CheckoutLine) ([]models.Sweet, error) {
	merged, err := mergeLines(lines)
	if err != nil {
		return nil, err
	}

	var updated []models.Sweet
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		for _, line := range merged {
			if err := s.decrementStock(ctx, tx, userID, line.SweetID, line.Quantity); err != nil {
				return err
			}
		}
		for _, line := range merged {
			sweet, err := getSweet(ctx, tx, line.SweetID)
			if err != nil {
				return err
			}
			updated = append(updated, *sweet)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// mergeLines sums quantities per sweet and orders lines by sweet id so
// concurrent checkouts lock rows in the same order.
func mergeLines(lines []models.CheckoutLine) ([]models.CheckoutLine, error) {
	if len(lines) == 0 {
		return nil, apperr.Validation("Cart is empty")
	}

	totals := make(map[int64]int, len(lines))
	for _, line := range lines {
		if line.SweetID <= 0 {
			return nil, apperr.Validation("Invalid sweet id")
		}
		if line.Quantity < 1 {
			return nil, apperr.Validation("Quantity must be at least 1")
		}
		totals[line.SweetID] += line.Quantity
	}

	merged := make([]models.CheckoutLine, 0, len(totals))
	for id, qty := range totals {
		merged = append(merged, models.CheckoutLine{SweetID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].SweetID < merged[j].SweetID })
	return merged, nil
}
