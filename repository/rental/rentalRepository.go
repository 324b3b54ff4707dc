// repository/rental/repo.go
package rental

import (
	"context"
	"errors"
	"time"

	"boardcamp/model"
	"boardcamp/util/database"

	"github.com/jackc/pgx/v5"
)

type Repo interface {
	Insert(ctx context.Context, m *model.Rental) error
	List(ctx context.Context) ([]model.Rental, error)
	// ByID returns (nil, nil) when no rental has the given id.
	ByID(ctx context.Context, id int64) (*model.Rental, error)
	CountActiveByGame(ctx context.Context, gameID int64) (int64, error)
	SetReturned(ctx context.Context, id int64, returnDate model.Date, delayFee int64) error
	Delete(ctx context.Context, id int64) error
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Insert(ctx context.Context, m *model.Rental) error {
	const q = `
		INSERT INTO rentals (customer_id, game_id, rent_date, days_rented, original_price, delay_fee)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	return r.db.Pool.QueryRow(ctx, q,
		m.CustomerID, m.GameID, m.RentDate.Time(), m.DaysRented, m.OriginalPrice, m.DelayFee,
	).Scan(&m.ID)
}

func (r *repo) List(ctx context.Context) ([]model.Rental, error) {
	const q = `
		SELECT id, customer_id, game_id, rent_date, days_rented, return_date, original_price, delay_fee
		FROM rentals
		ORDER BY id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Rental
	for rows.Next() {
		m, err := scanRental(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Rental, error) {
	const q = `
		SELECT id, customer_id, game_id, rent_date, days_rented, return_date, original_price, delay_fee
		FROM rentals
		WHERE id = $1`
	m, err := scanRental(r.db.Pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repo) CountActiveByGame(ctx context.Context, gameID int64) (int64, error) {
	const q = `
		SELECT COUNT(*)
		FROM rentals
		WHERE game_id = $1
		AND return_date IS NULL`
	var n int64
	err := r.db.Pool.QueryRow(ctx, q, gameID).Scan(&n)
	return n, err
}

func (r *repo) SetReturned(ctx context.Context, id int64, returnDate model.Date, delayFee int64) error {
	const q = `
		UPDATE rentals
		SET return_date = $2,
			delay_fee = $3
		WHERE id = $1`
	_, err := r.db.Pool.Exec(ctx, q, id, returnDate.Time(), delayFee)
	return err
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM rentals WHERE id = $1`
	_, err := r.db.Pool.Exec(ctx, q, id)
	return err
}

func scanRental(row pgx.Row) (*model.Rental, error) {
	var m model.Rental
	var rentDate time.Time
	var returnDate *time.Time
	err := row.Scan(
		&m.ID, &m.CustomerID, &m.GameID, &rentDate,
		&m.DaysRented, &returnDate, &m.OriginalPrice, &m.DelayFee,
	)
	if err != nil {
		return nil, err
	}
	m.RentDate = model.DateOf(rentDate)
	if returnDate != nil {
		d := model.DateOf(*returnDate)
		m.ReturnDate = &d
	}
	return &m, nil
}
