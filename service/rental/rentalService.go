package rental

import (
	"context"
	"errors"
	"sync"
	"time"

	"boardcamp/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrInvalidInput     ErrCode = "INVALID_INPUT"
	ErrCustomerNotFound ErrCode = "CUSTOMER_NOT_FOUND"
	ErrGameNotFound     ErrCode = "GAME_NOT_FOUND"
	ErrNotFound         ErrCode = "RENTAL_NOT_FOUND"
	ErrNoStock          ErrCode = "NO_STOCK"
	ErrAlreadyFinalized ErrCode = "ALREADY_FINALIZED"
	ErrNotFinalized     ErrCode = "NOT_FINALIZED"
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

type CustomerStore interface {
	ByID(ctx context.Context, id int64) (*model.Customer, error)
}

type GameStore interface {
	ByID(ctx context.Context, id int64) (*model.Game, error)
}

type Store interface {
	Insert(ctx context.Context, m *model.Rental) error
	List(ctx context.Context) ([]model.Rental, error)
	ByID(ctx context.Context, id int64) (*model.Rental, error)
	CountActiveByGame(ctx context.Context, gameID int64) (int64, error)
	SetReturned(ctx context.Context, id int64, returnDate model.Date, delayFee int64) error
	Delete(ctx context.Context, id int64) error
}

type Service interface {
	// List returns every rental, active or finished.
	List(ctx context.Context) ([]model.Rental, error)

	// Create opens a rental if the game still has a free copy.
	Create(ctx context.Context, customerID, gameID, daysRented int64) (*model.Rental, error)

	// Finalize marks the rental returned and charges the delay fee.
	Finalize(ctx context.Context, id int64) (*model.Rental, error)

	// Delete removes a finished rental for good.
	Delete(ctx context.Context, id int64) error
}

type service struct {
	customers CustomerStore
	games     GameStore
	rentals   Store

	// serializes the count-then-insert in Create per game, so two
	// concurrent rentals cannot both grab the last copy
	mu        sync.Mutex
	gameLocks map[int64]*sync.Mutex

	now func() time.Time
}

func New(customers CustomerStore, games GameStore, rentals Store) Service {
	return &service{
		customers: customers,
		games:     games,
		rentals:   rentals,
		gameLocks: make(map[int64]*sync.Mutex),
		now:       time.Now,
	}
}

func (s *service) lockGame(gameID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.gameLocks[gameID]
	if !ok {
		l = &sync.Mutex{}
		s.gameLocks[gameID] = l
	}
	return l
}

func (s *service) List(ctx context.Context) ([]model.Rental, error) {
	return s.rentals.List(ctx)
}

func (s *service) Create(ctx context.Context, customerID, gameID, daysRented int64) (*model.Rental, error) {
	if customerID <= 0 || gameID <= 0 || daysRented <= 0 {
		return nil, makeErr(ErrInvalidInput)
	}

	customer, err := s.customers.ByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, makeErr(ErrCustomerNotFound)
	}

	game, err := s.games.ByID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, makeErr(ErrGameNotFound)
	}

	lock := s.lockGame(game.ID)
	lock.Lock()
	defer lock.Unlock()

	active, err := s.rentals.CountActiveByGame(ctx, game.ID)
	if err != nil {
		return nil, err
	}
	if active >= game.StockTotal {
		return nil, makeErr(ErrNoStock)
	}

	m := &model.Rental{
		CustomerID:    customer.ID,
		GameID:        game.ID,
		RentDate:      model.DateOf(s.now()),
		DaysRented:    daysRented,
		OriginalPrice: daysRented * game.PricePerDay,
	}
	if err := s.rentals.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Finalize(ctx context.Context, id int64) (*model.Rental, error) {
	m, err := s.rentals.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, makeErr(ErrNotFound)
	}
	if m.ReturnDate != nil {
		return nil, makeErr(ErrAlreadyFinalized)
	}

	game, err := s.games.ByID(ctx, m.GameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, makeErr(ErrGameNotFound)
	}

	today := model.DateOf(s.now())
	expected := m.RentDate.AddDays(int(m.DaysRented))

	// clamp the day count before multiplying, an early return must not
	// turn into a negative fee
	delayDays := expected.DaysUntil(today)
	if delayDays < 0 {
		delayDays = 0
	}

	m.ReturnDate = &today
	m.DelayFee = int64(delayDays) * game.PricePerDay

	if err := s.rentals.SetReturned(ctx, m.ID, today, m.DelayFee); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	m, err := s.rentals.ByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return makeErr(ErrNotFound)
	}
	if m.ReturnDate == nil {
		return makeErr(ErrNotFinalized)
	}
	return s.rentals.Delete(ctx, m.ID)
}
