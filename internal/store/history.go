package store

import (
	"context"
	"database/sql"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

// HistoryFor returns the purchases of one user, most recent first.
func (s *Store) HistoryFor(ctx context.Context, userID int64) ([]models.HistoryRow, error) {
	query := `
		SELECT ph.sweet_id, s.name, s.image, s.price, ph.quantity, ph.purchase_date
		FROM purchase_history ph
		JOIN sweets s ON ph.sweet_id = s.id
		WHERE ph.user_id = ?
		ORDER BY ph.purchase_date DESC, ph.id DESC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Internal("Error fetching purchase history", err)
	}
	defer rows.Close()

	history := []models.HistoryRow{}
	for rows.Next() {
		var row models.HistoryRow
		var image sql.NullString
		if err := rows.Scan(
			&row.SweetID,
			&row.Name,
			&image,
			&row.Price,
			&row.PurchasedQuantity,
			&row.PurchaseDate,
		); err != nil {
			return nil, apperr.Internal("Error fetching purchase history", err)
		}
		row.Image = stringPtr(image)
		history = append(history, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("Error fetching purchase history", err)
	}
	return history, nil
}
