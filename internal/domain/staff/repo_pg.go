package staff

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

type staffRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &staffRepoPG{pool: pool}
}

func (r *staffRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const staffCols = `id, staff_id, full_name, email, phone, role, active, created_at, updated_at`

func (r *staffRepoPG) scan(row pgx.Row) (*Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.StaffID, &m.FullName, &m.Email, &m.Phone, &m.Role,
		&m.Active, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *staffRepoPG) Create(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	if m.StaffID == "" {
		m.StaffID = m.ID.String()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff_member (id, staff_id, full_name, email, phone, role, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		m.ID, m.StaffID, m.FullName, m.Email, m.Phone, m.Role, m.Active)
	return err
}

func (r *staffRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM staff_member WHERE id = $1`, id))
}

func (r *staffRepoPG) GetByCode(ctx context.Context, staffID string) (*Member, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM staff_member WHERE staff_id = $1`, staffID))
}

func (r *staffRepoPG) Update(ctx context.Context, m *Member) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff_member SET full_name=$2, email=$3, phone=$4, role=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.FullName, m.Email, m.Phone, m.Role, m.Active)
	return err
}

func (r *staffRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff_member WHERE id = $1`, id)
	return err
}

func (r *staffRepoPG) List(ctx context.Context, limit, offset int) ([]*Member, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM staff_member`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM staff_member ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Member
	for rows.Next() {
		m, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

// ActiveLoads counts open bookings per active member. Bookings in a
// terminal status do not contribute to load.
func (r *staffRepoPG) ActiveLoads(ctx context.Context) ([]Load, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT s.staff_id, COUNT(b.id)
		FROM staff_member s
		LEFT JOIN booking b ON b.staff_id = s.staff_id
			AND b.status IN ('pending', 'in-progress')
		WHERE s.active
		GROUP BY s.staff_id
		ORDER BY s.staff_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var loads []Load
	for rows.Next() {
		var l Load
		if err := rows.Scan(&l.StaffID, &l.Open); err != nil {
			return nil, err
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}
