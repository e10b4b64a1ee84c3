package customer

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

type customerRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &customerRepoPG{pool: pool}
}

func (r *customerRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const customerCols = `id, customer_id, full_name, email, phone, address, created_at, updated_at`

func (r *customerRepoPG) scan(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.CustomerID, &c.FullName, &c.Email, &c.Phone, &c.Address,
		&c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

func (r *customerRepoPG) Create(ctx context.Context, c *Customer) error {
	c.ID = uuid.New()
	if c.CustomerID == "" {
		c.CustomerID = c.ID.String()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO customer (id, customer_id, full_name, email, phone, address)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.CustomerID, c.FullName, c.Email, c.Phone, c.Address)
	return err
}

func (r *customerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+customerCols+` FROM customer WHERE id = $1`, id))
}

func (r *customerRepoPG) GetByCode(ctx context.Context, customerID string) (*Customer, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+customerCols+` FROM customer WHERE customer_id = $1`, customerID))
}

func (r *customerRepoPG) Update(ctx context.Context, c *Customer) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE customer SET full_name=$2, email=$3, phone=$4, address=$5, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.FullName, c.Email, c.Phone, c.Address)
	return err
}

func (r *customerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM customer WHERE id = $1`, id)
	return err
}

func (r *customerRepoPG) List(ctx context.Context, limit, offset int) ([]*Customer, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM customer`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+customerCols+` FROM customer ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Customer
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}
