package testresult

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/genelab/genelab/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type resultRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &resultRepoPG{pool: pool}
}

func (r *resultRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const resultCols = `id, result_id, booking_id, staff_id, conclusion, description, result_date, created_at`

func (r *resultRepoPG) scan(row pgx.Row) (*TestResult, error) {
	var tr TestResult
	err := row.Scan(&tr.ID, &tr.ResultID, &tr.BookingID, &tr.StaffID, &tr.Conclusion,
		&tr.Description, &tr.ResultDate, &tr.CreatedAt)
	return &tr, err
}

// Create runs inside the booking completion transaction when one is on the
// context, so a failed status update rolls the result back too.
func (r *resultRepoPG) Create(ctx context.Context, tr *TestResult) error {
	tr.ID = uuid.New()
	if tr.ResultID == "" {
		tr.ResultID = tr.ID.String()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO test_result (id, result_id, booking_id, staff_id, conclusion, description, result_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		tr.ID, tr.ResultID, tr.BookingID, tr.StaffID, tr.Conclusion, tr.Description, tr.ResultDate)
	return err
}

func (r *resultRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*TestResult, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+resultCols+` FROM test_result WHERE id = $1`, id))
}

func (r *resultRepoPG) GetByBookingID(ctx context.Context, bookingID string) (*TestResult, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+resultCols+` FROM test_result WHERE booking_id = $1`, bookingID))
}

func (r *resultRepoPG) List(ctx context.Context, limit, offset int) ([]*TestResult, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM test_result`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+resultCols+` FROM test_result ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*TestResult
	for rows.Next() {
		tr, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, tr)
	}
	return items, total, nil
}
