// backend/src/model/marketplace_store.go
package model

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alyal/vendalytics/backend/src/models"
)

var ErrMarketplaceNotFound = errors.New("marketplace not found")

// ListMarketplaces returns every registered sales channel, alphabetically.
func ListMarketplaces(ctx context.Context, db *sql.DB) ([]models.Marketplace, error) {
	rows, err := db.QueryContext(ctx, "SELECT id, nome FROM marketplaces ORDER BY nome ASC")
	if err != nil {
		return nil, fmt.Errorf("querying marketplaces: %w", err)
	}
	defer rows.Close()

	list := make([]models.Marketplace, 0)
	for rows.Next() {
		var m models.Marketplace
		if err := rows.Scan(&m.ID, &m.Nome); err != nil {
			return nil, fmt.Errorf("scanning marketplace: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetMarketplaceByID looks a marketplace up; uploads against an unknown
// marketplace are rejected before any parsing happens.
func GetMarketplaceByID(ctx context.Context, db *sql.DB, id int64) (models.Marketplace, error) {
	var m models.Marketplace
	err := db.QueryRowContext(ctx, "SELECT id, nome FROM marketplaces WHERE id = ?", id).
		Scan(&m.ID, &m.Nome)
	if errors.Is(err, sql.ErrNoRows) {
		return m, ErrMarketplaceNotFound
	}
	if err != nil {
		return m, fmt.Errorf("querying marketplace %d: %w", id, err)
	}
	return m, nil
}
