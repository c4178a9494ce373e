package database

import (
	"context"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, author_id, text, created_at) VALUES (?, ?, ?, ?)`
	result, err := db.ExecContext(ctx, query,
		comment.ItemID, comment.AuthorID, comment.Text, comment.Created,
	)
	if err != nil {
		return wrapRowErr("create comment", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return wrapRowErr("create comment last insert id", err)
	}
	comment.ID = id
	return nil
}

func (db *DB) GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created_at
              FROM comments c
              JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ?
              ORDER BY c.created_at DESC`
	rows, err := db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, wrapRowErr("list comments", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		err := rows.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created)
		if err != nil {
			return nil, wrapRowErr("scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRowErr("list comments rows", err)
	}
	return comments, nil
}
