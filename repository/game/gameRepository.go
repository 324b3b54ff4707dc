package gamerepo

import (
	"context"
	"errors"

	"boardcamp/model"
	"boardcamp/util/database"

	"github.com/jackc/pgx/v5"
)

type Repo interface {
	Insert(ctx context.Context, g *model.Game) error
	List(ctx context.Context) ([]model.Game, error)
	// ByID returns (nil, nil) when no game has the given id.
	ByID(ctx context.Context, id int64) (*model.Game, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, g *model.Game) error {
	const q = `
		INSERT INTO games (name, image, stock_total, price_per_day)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, g.Name, g.Image, g.StockTotal, g.PricePerDay).Scan(&g.ID)
}

func (r *repo) List(ctx context.Context) ([]model.Game, error) {
	const q = `
		SELECT id, name, image, stock_total, price_per_day
		FROM games
		ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Game
	for rows.Next() {
		var g model.Game
		if err := rows.Scan(&g.ID, &g.Name, &g.Image, &g.StockTotal, &g.PricePerDay); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Game, error) {
	const q = `
		SELECT id, name, image, stock_total, price_per_day
		FROM games
		WHERE id = $1`
	g := &model.Game{}
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&g.ID, &g.Name, &g.Image, &g.StockTotal, &g.PricePerDay)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return g, nil
}

func (r *repo) ExistsByName(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM games WHERE name = $1)`
	var exists bool
	err := r.db.Pool.QueryRow(ctx, q, name).Scan(&exists)
	return exists, err
}
