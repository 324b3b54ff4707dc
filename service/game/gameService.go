package gamesvc

import (
	"context"
	"errors"
	"strings"

	"boardcamp/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type ErrCode string

const (
	ErrInvalidInput ErrCode = "INVALID_INPUT"
	ErrNameTaken    ErrCode = "NAME_TAKEN"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type Repo interface {
	Insert(ctx context.Context, g *model.Game) error
	List(ctx context.Context) ([]model.Game, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type Service interface {
	List(ctx context.Context) ([]model.Game, error)
	Create(ctx context.Context, name, image string, stockTotal, pricePerDay int64) (*model.Game, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context) ([]model.Game, error) {
	return s.r.List(ctx)
}

func (s *service) Create(ctx context.Context, name, image string, stockTotal, pricePerDay int64) (*model.Game, error) {
	if strings.TrimSpace(name) == "" {
		return nil, makeErr(ErrInvalidInput)
	}
	if !strings.HasPrefix(image, "http://") && !strings.HasPrefix(image, "https://") {
		return nil, makeErr(ErrInvalidInput)
	}
	if stockTotal <= 0 || pricePerDay <= 0 {
		return nil, makeErr(ErrInvalidInput)
	}

	taken, err := s.r.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, makeErr(ErrNameTaken)
	}

	g := &model.Game{Name: name, Image: image, StockTotal: stockTotal, PricePerDay: pricePerDay}
	if err := s.r.Insert(ctx, g); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrNameTaken)
		}
		return nil, err
	}
	return g, nil
}
