package customersvc

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"boardcamp/model"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// errors used by controllers

type ErrCode string

const (
	ErrInvalidInput ErrCode = "INVALID_INPUT"
	ErrNotFound     ErrCode = "CUSTOMER_NOT_FOUND"
	ErrCPFTaken     ErrCode = "CPF_TAKEN"
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

var (
	cpfRe   = regexp.MustCompile(`^\d{11}$`)
	phoneRe = regexp.MustCompile(`^\d{10,11}$`)
)

type Repo interface {
	Insert(ctx context.Context, c *model.Customer) error
	List(ctx context.Context) ([]model.Customer, error)
	ByID(ctx context.Context, id int64) (*model.Customer, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
}

type Service interface {
	List(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, name, phone, cpf string) (*model.Customer, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context) ([]model.Customer, error) {
	return s.r.List(ctx)
}

func (s *service) Get(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.r.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, makeErr(ErrNotFound)
	}
	return c, nil
}

func (s *service) Create(ctx context.Context, name, phone, cpf string) (*model.Customer, error) {
	if strings.TrimSpace(name) == "" || !cpfRe.MatchString(cpf) || !phoneRe.MatchString(phone) {
		return nil, makeErr(ErrInvalidInput)
	}

	taken, err := s.r.ExistsByCPF(ctx, cpf)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, makeErr(ErrCPFTaken)
	}

	c := &model.Customer{Name: name, Phone: phone, CPF: cpf}
	if err := s.r.Insert(ctx, c); err != nil {
		// two concurrent registrations can both pass the exists check;
		// the unique index on cpf decides the loser
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, makeErr(ErrCPFTaken)
		}
		return nil, err
	}
	return c, nil
}
