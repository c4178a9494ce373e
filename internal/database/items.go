package database

import (
	"context"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (name, description, available, owner_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, item.OwnerID, now, now,
	)
	if err != nil {
		return wrapRowErr("create item", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return wrapRowErr("create item last insert id", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, created_at, updated_at
              FROM items WHERE id = ?`
	var item models.Item
	err := db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.Name, &item.Description, &item.Available,
		&item.OwnerID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, wrapRowErr("get item", err)
	}
	return &item, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, created_at, updated_at
              FROM items WHERE owner_id = ? ORDER BY id`
	return db.queryItems(ctx, query, ownerID)
}

// SearchItems matches name or description case-insensitively among
// available items only.
func (db *DB) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	query := `SELECT id, name, description, available, owner_id, created_at, updated_at
              FROM items
              WHERE available = 1
                AND (LOWER(name) LIKE '%' || LOWER(?) || '%'
                     OR LOWER(description) LIKE '%' || LOWER(?) || '%')
              ORDER BY id`
	return db.queryItems(ctx, query, text, text)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...interface{}) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapRowErr("list items", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID, &item.Name, &item.Description, &item.Available,
			&item.OwnerID, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, wrapRowErr("scan item", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRowErr("list items rows", err)
	}
	return items, nil
}

func (db *DB) UpdateItem(ctx context.Context, item *models.Item) error {
	query := `UPDATE items SET name = ?, description = ?, available = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		item.Name, item.Description, item.Available, now, item.ID,
	)
	if err != nil {
		return wrapRowErr("update item", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapRowErr("update item rows affected", err)
	}
	if affected == 0 {
		return wrapRowErr("update item", errNoRowsAffected)
	}
	item.UpdatedAt = now
	return nil
}
