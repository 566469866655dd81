package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gosimple/slug"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
	"github.com/01moynul/sweetshop-golang/internal/models"
)

const sweetColumns = "id, name, category, price, quantity, image, description"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweet(row rowScanner) (*models.Sweet, error) {
	var sweet models.Sweet
	var image, description sql.NullString
	if err := row.Scan(
		&sweet.ID,
		&sweet.Name,
		&sweet.Category,
		&sweet.Price,
		&sweet.Quantity,
		&image,
		&description,
	); err != nil {
		return nil, err
	}
	sweet.Image = stringPtr(image)
	sweet.Description = stringPtr(description)
	return &sweet, nil
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func getSweet(ctx context.Context, q Querier, id int64) (*models.Sweet, error) {
	row := q.QueryRowContext(ctx, "SELECT "+sweetColumns+" FROM sweets WHERE id = ?", id)
	sweet, err := scanSweet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("Sweet not found")
		}
		return nil, apperr.Internal("Database error", fmt.Errorf("get sweet %d: %w", id, err))
	}
	return sweet, nil
}

// GetSweet returns one sweet or a NotFound error.
func (s *Store) GetSweet(ctx context.Context, id int64) (*models.Sweet, error) {
	return getSweet(ctx, s.db, id)
}

// escapeLike escapes LIKE wildcards using '!' as the escape character,
// which both SQLite and MySQL accept without quoting differences.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// SearchSweets returns every sweet matching all of the given filters.
func (s *Store) SearchSweets(ctx context.Context, f models.SweetFilter) ([]models.Sweet, error) {
	var queryBuilder strings.Builder
	var args []any

	queryBuilder.WriteString("SELECT " + sweetColumns + " FROM sweets WHERE 1 = 1")

	if f.NameContains != "" {
		queryBuilder.WriteString(" AND LOWER(name) LIKE ? ESCAPE '!'")
		args = append(args, "%"+escapeLike(strings.ToLower(f.NameContains))+"%")
	}
	if f.Category != "" {
		queryBuilder.WriteString(" AND category = ?")
		args = append(args, f.Category)
	}
	if f.MinPrice != nil {
		queryBuilder.WriteString(" AND price >= ?")
		args = append(args, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		queryBuilder.WriteString(" AND price <= ?")
		args = append(args, *f.MaxPrice)
	}

	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, apperr.Internal("Error fetching sweets", err)
	}
	defer rows.Close()

	sweets := []models.Sweet{}
	for rows.Next() {
		sweet, err := scanSweet(rows)
		if err != nil {
			return nil, apperr.Internal("Error fetching sweets", err)
		}
		sweets = append(sweets, *sweet)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("Error fetching sweets", err)
	}
	return sweets, nil
}

// Categories lists the distinct categories with a slug and item count.
func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM sweets GROUP BY category ORDER BY category ASC")
	if err != nil {
		return nil, apperr.Internal("Error fetching categories", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, apperr.Internal("Error fetching categories", err)
		}
		c.Slug = slug.Make(c.Name)
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal("Error fetching categories", err)
	}
	return categories, nil
}

// CreateSweet inserts sweet and sets its ID.
func (s *Store) CreateSweet(ctx context.Context, sweet *models.Sweet) error {
	if sweet.Price < 0 || sweet.Quantity < 0 {
		return apperr.Validation("Price and quantity must not be negative")
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO sweets (name, category, price, quantity, image, description)
		VALUES (?, ?, ?, ?, ?, ?)`,
		sweet.Name, sweet.Category, sweet.Price, sweet.Quantity, sweet.Image, sweet.Description)
	if err != nil {
		return apperr.Internal("Error adding sweet", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return apperr.Internal("Error adding sweet", err)
	}
	sweet.ID = id
	return nil
}

// UpdateSweet merges the non-nil fields of patch into the sweet.
func (s *Store) UpdateSweet(ctx context.Context, id int64, patch models.SweetPatch) (*models.Sweet, error) {
	var updated *models.Sweet
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getSweet(ctx, tx, id); err != nil {
			return err
		}

		if !patch.Empty() {
			var sets []string
			var args []any
			add := func(column string, value any) {
				sets = append(sets, column+" = ?")
				args = append(args, value)
			}

			if patch.Name != nil {
				add("name", *patch.Name)
			}
			if patch.Category != nil {
				add("category", *patch.Category)
			}
			if patch.Price != nil {
				if *patch.Price < 0 {
					return apperr.Validation("Price must not be negative")
				}
				add("price", *patch.Price)
			}
			if patch.Quantity != nil {
				if *patch.Quantity < 0 {
					return apperr.Validation("Quantity must not be negative")
				}
				add("quantity", *patch.Quantity)
			}
			if patch.Image != nil {
				add("image", *patch.Image)
			}
			if patch.Description != nil {
				add("description", *patch.Description)
			}

			args = append(args, id)
			query := fmt.Sprintf("UPDATE sweets SET %s WHERE id = ?", strings.Join(sets, ", "))
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return apperr.Internal("Error updating sweet", err)
			}
		}

		sweet, err := getSweet(ctx, tx, id)
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

// DeleteSweet removes a sweet. Sweets that appear in anyone's purchase
// history cannot be deleted.
func (s *Store) DeleteSweet(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := getSweet(ctx, tx, id); err != nil {
			return err
		}

		var references int
		err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM purchase_history WHERE sweet_id = ?", id).Scan(&references)
		if err != nil {
			return apperr.Internal("Error deleting sweet", err)
		}
		if references > 0 {
			return apperr.Conflict("Sweet has purchase history and cannot be deleted")
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM sweets WHERE id = ?", id); err != nil {
			if isForeignKeyViolation(err) {
				return apperr.Wrap(apperr.KindConflict, "Sweet has purchase history and cannot be deleted", err)
			}
			return apperr.Internal("Error deleting sweet", err)
		}
		return nil
	})
}
