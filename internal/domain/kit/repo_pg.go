package kit

import (
	"context"
	"time"

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

type kitRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &kitRepoPG{pool: pool}
}

func (r *kitRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const kitCols = `id, kit_id, booking_id, customer_id, staff_id, description, status, received_at, created_at, updated_at`

func (r *kitRepoPG) scan(row pgx.Row) (*Kit, error) {
	var k Kit
	err := row.Scan(&k.ID, &k.KitID, &k.BookingID, &k.CustomerID, &k.StaffID,
		&k.Description, &k.Status, &k.ReceivedAt, &k.CreatedAt, &k.UpdatedAt)
	return &k, err
}

func (r *kitRepoPG) Create(ctx context.Context, k *Kit) error {
	k.ID = uuid.New()
	if k.KitID == "" {
		k.KitID = k.ID.String()
	}
	if k.Status == "" {
		k.Status = status.KitAvailable
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO kit (id, kit_id, booking_id, customer_id, staff_id, description, status, received_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		k.ID, k.KitID, k.BookingID, k.CustomerID, k.StaffID, k.Description, k.Status, k.ReceivedAt)
	return err
}

func (r *kitRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Kit, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+kitCols+` FROM kit WHERE id = $1`, id))
}

func (r *kitRepoPG) GetByCode(ctx context.Context, kitID string) (*Kit, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+kitCols+` FROM kit WHERE kit_id = $1`, kitID))
}

func (r *kitRepoPG) GetByBookingID(ctx context.Context, bookingID string) (*Kit, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+kitCols+` FROM kit WHERE booking_id = $1`, bookingID))
}

func (r *kitRepoPG) Update(ctx context.Context, k *Kit) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE kit SET booking_id=$2, customer_id=$3, staff_id=$4, description=$5, updated_at=NOW()
		WHERE id = $1`,
		k.ID, k.BookingID, k.CustomerID, k.StaffID, k.Description)
	return err
}

func (r *kitRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, next status.State, receivedAt *time.Time) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE kit SET status=$2, received_at=COALESCE($3, received_at), updated_at=NOW()
		WHERE id = $1`,
		id, next, receivedAt)
	return err
}

func (r *kitRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM kit WHERE id = $1`, id)
	return err
}

func (r *kitRepoPG) List(ctx context.Context, limit, offset int) ([]*Kit, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM kit`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+kitCols+` FROM kit ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Kit
	for rows.Next() {
		k, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, k)
	}
	return items, total, nil
}
