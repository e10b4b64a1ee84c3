package booking

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genelab/genelab/internal/platform/db"
	"github.com/genelab/genelab/internal/platform/status"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type bookingRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &bookingRepoPG{pool: pool}
}

func (r *bookingRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const bookingCols = `id, booking_id, customer_id, staff_id, service_id, address, collection_method, status, created_at, updated_at`

func (r *bookingRepoPG) scan(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.BookingID, &b.CustomerID, &b.StaffID, &b.ServiceID,
		&b.Address, &b.CollectionMethod, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return &b, err
}

func (r *bookingRepoPG) Create(ctx context.Context, b *Booking) error {
	b.ID = uuid.New()
	if b.BookingID == "" {
		b.BookingID = b.ID.String()
	}
	if b.Status == "" {
		b.Status = status.BookingPending
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO booking (id, booking_id, customer_id, staff_id, service_id, address, collection_method, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		b.ID, b.BookingID, b.CustomerID, b.StaffID, b.ServiceID, b.Address, b.CollectionMethod, b.Status)
	return err
}

func (r *bookingRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+bookingCols+` FROM booking WHERE id = $1`, id))
}

func (r *bookingRepoPG) GetByCode(ctx context.Context, bookingID string) (*Booking, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+bookingCols+` FROM booking WHERE booking_id = $1`, bookingID))
}

func (r *bookingRepoPG) Update(ctx context.Context, b *Booking) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE booking SET staff_id=$2, service_id=$3, address=$4, collection_method=$5, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.StaffID, b.ServiceID, b.Address, b.CollectionMethod)
	return err
}

func (r *bookingRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, next status.State) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE booking SET status=$2, updated_at=NOW() WHERE id = $1`, id, next)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *bookingRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM booking WHERE id = $1`, id)
	return err
}

func (r *bookingRepoPG) List(ctx context.Context, limit, offset int) ([]*Booking, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM booking`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+bookingCols+` FROM booking ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *bookingRepoPG) ListByStaff(ctx context.Context, staffID string, limit, offset int) ([]*Booking, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM booking WHERE staff_id = $1`, staffID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+bookingCols+` FROM booking WHERE staff_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`, staffID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *bookingRepoPG) collect(rows pgx.Rows, total int) ([]*Booking, int, error) {
	var items []*Booking
	for rows.Next() {
		b, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

func (r *bookingRepoPG) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(db.WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
