package rental

import (
	"context"
	"sync"
	"testing"
	"time"

	"boardcamp/model"

	"github.com/stretchr/testify/require"
)

// --- fakes ---

type fakeCustomers struct {
	byID map[int64]model.Customer
}

func (f *fakeCustomers) ByID(ctx context.Context, id int64) (*model.Customer, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type fakeGames struct {
	byID map[int64]model.Game
}

func (f *fakeGames) ByID(ctx context.Context, id int64) (*model.Game, error) {
	g, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &g, nil
}

// fakeStore is an in-memory Store, safe for concurrent use so the
// stock admission can be exercised from multiple goroutines.
type fakeStore struct {
	mu      sync.Mutex
	nextID  int64
	rentals []model.Rental
	inserts int
}

func (f *fakeStore) Insert(ctx context.Context, m *model.Rental) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.inserts++
	m.ID = f.nextID
	f.rentals = append(f.rentals, *m)
	return nil
}

func (f *fakeStore) List(ctx context.Context) ([]model.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Rental, len(f.rentals))
	copy(out, f.rentals)
	return out, nil
}

func (f *fakeStore) ByID(ctx context.Context, id int64) (*model.Rental, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.rentals {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CountActiveByGame(ctx context.Context, gameID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, m := range f.rentals {
		if m.GameID == gameID && m.ReturnDate == nil {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) SetReturned(ctx context.Context, id int64, returnDate model.Date, delayFee int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rentals {
		if f.rentals[i].ID == id {
			d := returnDate
			f.rentals[i].ReturnDate = &d
			f.rentals[i].DelayFee = delayFee
		}
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rentals {
		if f.rentals[i].ID == id {
			f.rentals = append(f.rentals[:i], f.rentals[i+1:]...)
			return nil
		}
	}
	return nil
}

// --- helpers ---

func day(n int) time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func newFixture(games map[int64]model.Game) (*service, *fakeStore) {
	customers := &fakeCustomers{byID: map[int64]model.Customer{
		1: {ID: 1, Name: "Ann", Phone: "11999999999", CPF: "12345678901"},
	}}
	store := &fakeStore{}
	svc := New(customers, &fakeGames{byID: games}, store).(*service)
	svc.now = func() time.Time { return day(0) }
	return svc, store
}

func chess(stock int64) map[int64]model.Game {
	return map[int64]model.Game{
		10: {ID: 10, Name: "Chess", Image: "https://img.example/chess.png", StockTotal: stock, PricePerDay: 1500},
	}
}

// --- tests ---

func TestCreate_InvalidInput(t *testing.T) {
	svc, store := newFixture(chess(3))
	ctx := context.Background()

	for _, args := range [][3]int64{
		{0, 10, 3},
		{1, 0, 3},
		{1, 10, 0},
		{1, 10, -2},
	} {
		_, err := svc.Create(ctx, args[0], args[1], args[2])
		require.Equal(t, ErrInvalidInput, Code(err))
	}
	require.Zero(t, store.inserts)
}

func TestCreate_CustomerNotFound_NoWrites(t *testing.T) {
	svc, store := newFixture(chess(3))

	_, err := svc.Create(context.Background(), 99, 10, 3)
	require.Equal(t, ErrCustomerNotFound, Code(err))

	require.Zero(t, store.inserts)
	rows, err := store.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCreate_GameNotFound(t *testing.T) {
	svc, store := newFixture(chess(3))

	_, err := svc.Create(context.Background(), 1, 99, 3)
	require.Equal(t, ErrGameNotFound, Code(err))
	require.Zero(t, store.inserts)
}

func TestCreate_PricesAndDefaults(t *testing.T) {
	svc, _ := newFixture(chess(3))

	m, err := svc.Create(context.Background(), 1, 10, 2)
	require.NoError(t, err)
	require.Equal(t, int64(3000), m.OriginalPrice)
	require.Equal(t, int64(2), m.DaysRented)
	require.True(t, m.RentDate.Equal(model.DateOf(day(0))))
	require.Nil(t, m.ReturnDate)
	require.Zero(t, m.DelayFee)
	require.NotZero(t, m.ID)
}

func TestCreate_StockLimit(t *testing.T) {
	svc, _ := newFixture(chess(3))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, 1, 10, 3)
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, 1, 10, 3)
	require.Equal(t, ErrNoStock, Code(err))
}

func TestCreate_StockFreedByReturn(t *testing.T) {
	svc, _ := newFixture(chess(1))
	ctx := context.Background()

	first, err := svc.Create(ctx, 1, 10, 3)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, 10, 3)
	require.Equal(t, ErrNoStock, Code(err))

	_, err = svc.Finalize(ctx, first.ID)
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, 10, 3)
	require.NoError(t, err)
}

func TestCreate_ConcurrentLastCopies(t *testing.T) {
	svc, store := newFixture(chess(2))
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, noStock := 0, 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, 1, 10, 3)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case Code(err) == ErrNoStock:
				noStock++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 2, ok)
	require.Equal(t, attempts-2, noStock)
	require.Equal(t, 2, store.inserts)
}

func TestFinalize_OnTime(t *testing.T) {
	svc, _ := newFixture(chess(3))
	ctx := context.Background()

	m, err := svc.Create(ctx, 1, 10, 3)
	require.NoError(t, err)

	svc.now = func() time.Time { return day(2) }
	out, err := svc.Finalize(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, out.ReturnDate)
	require.True(t, out.ReturnDate.Equal(model.DateOf(day(2))))
	require.Zero(t, out.DelayFee)
	require.Equal(t, int64(4500), out.OriginalPrice)
}

func TestFinalize_Late(t *testing.T) {
	// rented for 3 days on day 0 at 1500/day, returned on day 5:
	// expected return day 3, 2 days late, fee 3000
	svc, _ := newFixture(chess(3))
	ctx := context.Background()

	m, err := svc.Create(ctx, 1, 10, 3)
	require.NoError(t, err)

	svc.now = func() time.Time { return day(5) }
	out, err := svc.Finalize(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3000), out.DelayFee)
	require.Equal(t, int64(4500), out.OriginalPrice)
}

func TestFinalize_Twice(t *testing.T) {
	svc, store := newFixture(chess(3))
	ctx := context.Background()

	m, err := svc.Create(ctx, 1, 10, 3)
	require.NoError(t, err)

	svc.now = func() time.Time { return day(5) }
	_, err = svc.Finalize(ctx, m.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return day(7) }
	_, err = svc.Finalize(ctx, m.ID)
	require.Equal(t, ErrAlreadyFinalized, Code(err))

	// the failed call must not touch what the first one wrote
	kept, err := store.ByID(ctx, m.ID)
	require.NoError(t, err)
	require.True(t, kept.ReturnDate.Equal(model.DateOf(day(5))))
	require.Equal(t, int64(3000), kept.DelayFee)
}

func TestFinalize_NotFound(t *testing.T) {
	svc, _ := newFixture(chess(3))
	_, err := svc.Finalize(context.Background(), 404)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestDelete_ActiveRejected(t *testing.T) {
	svc, _ := newFixture(chess(3))
	ctx := context.Background()

	m, err := svc.Create(ctx, 1, 10, 3)
	require.NoError(t, err)

	err = svc.Delete(ctx, m.ID)
	require.Equal(t, ErrNotFinalized, Code(err))

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestDelete_Finalized(t *testing.T) {
	svc, _ := newFixture(chess(3))
	ctx := context.Background()

	m, err := svc.Create(ctx, 1, 10, 3)
	require.NoError(t, err)
	_, err = svc.Finalize(ctx, m.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))

	rows, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestDelete_NotFound(t *testing.T) {
	svc, _ := newFixture(chess(3))
	err := svc.Delete(context.Background(), 404)
	require.Equal(t, ErrNotFound, Code(err))
}
