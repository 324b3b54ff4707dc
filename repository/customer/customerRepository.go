package customerrepo

import (
	"context"
	"errors"

	"boardcamp/model"
	"boardcamp/util/database"

	"github.com/jackc/pgx/v5"
)

type Repo interface {
	Insert(ctx context.Context, c *model.Customer) error
	List(ctx context.Context) ([]model.Customer, error)
	// ByID returns (nil, nil) when no customer has the given id.
	ByID(ctx context.Context, id int64) (*model.Customer, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, c *model.Customer) error {
	const q = `
		INSERT INTO customers (name, phone, cpf)
		VALUES ($1, $2, $3)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, c.Name, c.Phone, c.CPF).Scan(&c.ID)
}

func (r *repo) List(ctx context.Context) ([]model.Customer, error) {
	const q = `
		SELECT id, name, phone, cpf
		FROM customers
		ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.CPF); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Customer, error) {
	const q = `
		SELECT id, name, phone, cpf
		FROM customers
		WHERE id = $1`
	c := &model.Customer{}
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.Name, &c.Phone, &c.CPF)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM customers WHERE cpf = $1)`
	var exists bool
	err := r.db.Pool.QueryRow(ctx, q, cpf).Scan(&exists)
	return exists, err
}
