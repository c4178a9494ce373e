package database

import (
	"context"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (name, email, created_at, updated_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, user.Name, user.Email, now, now)
	if err != nil {
		return wrapRowErr("create user", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return wrapRowErr("create user last insert id", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users WHERE id = ?`
	return db.queryUser(ctx, query, id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users WHERE email = ?`
	return db.queryUser(ctx, query, email)
}

func (db *DB) queryUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, wrapRowErr("get user", err)
	}
	return &user, nil
}

func (db *DB) GetAllUsers(ctx context.Context) ([]models.User, error) {
	query := `SELECT id, name, email, created_at, updated_at FROM users ORDER BY id`
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapRowErr("list users", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, wrapRowErr("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRowErr("list users rows", err)
	}
	return users, nil
}

func (db *DB) UpdateUser(ctx context.Context, user *models.User) error {
	query := `UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, user.Name, user.Email, now, user.ID)
	if err != nil {
		return wrapRowErr("update user", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapRowErr("update user rows affected", err)
	}
	if affected == 0 {
		return wrapRowErr("update user", errNoRowsAffected)
	}
	user.UpdatedAt = now
	return nil
}

func (db *DB) DeleteUser(ctx context.Context, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return wrapRowErr("delete user", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapRowErr("delete user rows affected", err)
	}
	if affected == 0 {
		return wrapRowErr("delete user", errNoRowsAffected)
	}
	return nil
}
