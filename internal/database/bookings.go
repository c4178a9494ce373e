package database

import (
	"context"
	"strings"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_at, end_at, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID, booking.BookerID, booking.Start, booking.End, booking.Status, now, now,
	)
	if err != nil {
		return wrapRowErr("create booking", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return wrapRowErr("create booking last insert id", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT id, item_id, booker_id, start_at, end_at, status, created_at, updated_at
              FROM bookings WHERE id = ?`
	var booking models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID, &booking.ItemID, &booking.BookerID, &booking.Start, &booking.End,
		&booking.Status, &booking.CreatedAt, &booking.UpdatedAt,
	)
	if err != nil {
		return nil, wrapRowErr("get booking", err)
	}
	return &booking, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return wrapRowErr("update booking status", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapRowErr("update booking status rows affected", err)
	}
	if affected == 0 {
		return wrapRowErr("update booking status", errNoRowsAffected)
	}
	return nil
}

// detailsQuery joins the item and booker rows so list endpoints return
// detailed views in a single pass instead of per-row lookups.
const detailsQuery = `
    SELECT b.id, b.start_at, b.end_at, b.status,
           i.id, i.name, i.description, i.available, i.owner_id, i.created_at, i.updated_at,
           u.id, u.name, u.email, u.created_at, u.updated_at
    FROM bookings b
    JOIN items i ON i.id = b.item_id
    JOIN users u ON u.id = b.booker_id`

func (db *DB) ListByBooker(ctx context.Context, bookerID int64) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE b.booker_id = ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, bookerID)
}

func (db *DB) ListByBookerCurrent(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE b.booker_id = ? AND b.start_at <= ? AND b.end_at >= ?
        ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, bookerID, now, now)
}

func (db *DB) ListByBookerPast(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE b.booker_id = ? AND b.end_at < ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, bookerID, now)
}

func (db *DB) ListByBookerFuture(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE b.booker_id = ? AND b.start_at > ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, bookerID, now)
}

func (db *DB) ListByBookerStatus(ctx context.Context, bookerID int64, status string) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE b.booker_id = ? AND b.status = ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, bookerID, status)
}

func (db *DB) ListByOwner(ctx context.Context, ownerID int64) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE i.owner_id = ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, ownerID)
}

func (db *DB) ListByOwnerCurrent(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE i.owner_id = ? AND b.start_at <= ? AND b.end_at >= ?
        ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, ownerID, now, now)
}

func (db *DB) ListByOwnerPast(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE i.owner_id = ? AND b.end_at < ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, ownerID, now)
}

func (db *DB) ListByOwnerFuture(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE i.owner_id = ? AND b.start_at > ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, ownerID, now)
}

func (db *DB) ListByOwnerStatus(ctx context.Context, ownerID int64, status string) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE i.owner_id = ? AND b.status = ? ORDER BY b.start_at DESC`
	return db.queryBookingDetails(ctx, query, ownerID, status)
}

// ListBookingsInRange returns every booking whose start falls inside
// [start, end], oldest first. Used by the report worker.
func (db *DB) ListBookingsInRange(ctx context.Context, start, end time.Time) ([]models.BookingDetails, error) {
	query := detailsQuery + ` WHERE b.start_at >= ? AND b.start_at <= ? ORDER BY b.start_at ASC`
	return db.queryBookingDetails(ctx, query, start, end)
}

func (db *DB) queryBookingDetails(ctx context.Context, query string, args ...interface{}) ([]models.BookingDetails, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapRowErr("list bookings", err)
	}
	defer rows.Close()

	details := []models.BookingDetails{}
	for rows.Next() {
		var d models.BookingDetails
		err := rows.Scan(
			&d.ID, &d.Start, &d.End, &d.Status,
			&d.Item.ID, &d.Item.Name, &d.Item.Description, &d.Item.Available,
			&d.Item.OwnerID, &d.Item.CreatedAt, &d.Item.UpdatedAt,
			&d.Booker.ID, &d.Booker.Name, &d.Booker.Email,
			&d.Booker.CreatedAt, &d.Booker.UpdatedAt,
		)
		if err != nil {
			return nil, wrapRowErr("scan booking details", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRowErr("list bookings rows", err)
	}
	return details, nil
}

// LastBookingsForItems returns, per item id, the booking with the
// latest start that is still <= now. One query for the whole set.
func (db *DB) LastBookingsForItems(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error) {
	query := `
        SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status, b.created_at, b.updated_at
        FROM bookings b
        JOIN (
            SELECT item_id, MAX(start_at) AS edge_start
            FROM bookings
            WHERE item_id IN (` + placeholders(len(itemIDs)) + `) AND start_at <= ?
            GROUP BY item_id
        ) e ON e.item_id = b.item_id AND e.edge_start = b.start_at`
	return db.queryBookingsByItem(ctx, query, itemIDs, now)
}

// NextBookingsForItems returns, per item id, the booking with the
// earliest start that is > now. One query for the whole set.
func (db *DB) NextBookingsForItems(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error) {
	query := `
        SELECT b.id, b.item_id, b.booker_id, b.start_at, b.end_at, b.status, b.created_at, b.updated_at
        FROM bookings b
        JOIN (
            SELECT item_id, MIN(start_at) AS edge_start
            FROM bookings
            WHERE item_id IN (` + placeholders(len(itemIDs)) + `) AND start_at > ?
            GROUP BY item_id
        ) e ON e.item_id = b.item_id AND e.edge_start = b.start_at`
	return db.queryBookingsByItem(ctx, query, itemIDs, now)
}

func (db *DB) queryBookingsByItem(ctx context.Context, query string, itemIDs []int64, now time.Time) (map[int64]models.Booking, error) {
	if len(itemIDs) == 0 {
		return map[int64]models.Booking{}, nil
	}

	args := make([]interface{}, 0, len(itemIDs)+1)
	for _, id := range itemIDs {
		args = append(args, id)
	}
	args = append(args, now)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapRowErr("bookings by item", err)
	}
	defer rows.Close()

	result := make(map[int64]models.Booking, len(itemIDs))
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(
			&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End,
			&b.Status, &b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, wrapRowErr("scan booking by item", err)
		}
		result[b.ItemID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, wrapRowErr("bookings by item rows", err)
	}
	return result, nil
}

// HasFinishedBooking reports whether the booker has at least one
// booking on the item that ended strictly before now.
func (db *DB) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	query := `SELECT EXISTS(
        SELECT 1 FROM bookings WHERE booker_id = ? AND item_id = ? AND end_at < ?
    )`
	var exists bool
	err := db.QueryRowContext(ctx, query, bookerID, itemID, now).Scan(&exists)
	if err != nil {
		return false, wrapRowErr("has finished booking", err)
	}
	return exists, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
