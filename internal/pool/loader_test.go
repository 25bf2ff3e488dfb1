package pool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"stackshelf/internal/models"
)

type fakeProducts struct {
	mu       sync.Mutex
	products []models.Product
	err      error
	calls    int
}

func (f *fakeProducts) ListAll(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.products, f.err
}

type fakeLikes struct {
	set   *models.LikeSet
	err   error
	calls int
}

func (f *fakeLikes) LikedBy(_ context.Context, _ uuid.UUID) (*models.LikeSet, error) {
	f.calls++
	return f.set, f.err
}

type fakeSnapshot struct {
	products    []models.Product
	cached      bool
	sets        int
	invalidated int
}

func (f *fakeSnapshot) Get(_ context.Context) ([]models.Product, bool) {
	return f.products, f.cached
}

func (f *fakeSnapshot) Set(_ context.Context, products []models.Product) {
	f.products = products
	f.cached = true
	f.sets++
}

func (f *fakeSnapshot) Invalidate(_ context.Context) {
	f.products = nil
	f.cached = false
	f.invalidated++
}

// testSettings trips after three requests with a long open period.
func testSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Hour,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

func TestProducts_SnapshotHit(t *testing.T) {
	store := &fakeProducts{}
	snap := &fakeSnapshot{products: []models.Product{{Name: "Acme"}}, cached: true}
	l := NewLoader(store, &fakeLikes{}, snap, testSettings())

	got, err := l.Products(context.Background())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Acme" {
		t.Errorf("got %+v", got)
	}
	if store.calls != 0 {
		t.Errorf("store read %d times on a cache hit", store.calls)
	}
}

func TestProducts_SnapshotMissFillsCache(t *testing.T) {
	store := &fakeProducts{products: []models.Product{{Name: "Boxly"}, {Name: "Ziplog"}}}
	snap := &fakeSnapshot{}
	l := NewLoader(store, &fakeLikes{}, snap, testSettings())

	got, err := l.Products(context.Background())
	if err != nil {
		t.Fatalf("Products: %v", err)
	}
	if len(got) != 2 || store.calls != 1 || snap.sets != 1 {
		t.Errorf("len=%d calls=%d sets=%d", len(got), store.calls, snap.sets)
	}

	// Second read is served by the snapshot.
	if _, err := l.Products(context.Background()); err != nil {
		t.Fatalf("Products: %v", err)
	}
	if store.calls != 1 {
		t.Errorf("store read %d times, want 1", store.calls)
	}
}

func TestProducts_NilSnapshot(t *testing.T) {
	store := &fakeProducts{products: []models.Product{{Name: "Acme"}}}
	l := NewLoader(store, &fakeLikes{}, nil, testSettings())

	for i := 0; i < 2; i++ {
		if _, err := l.Products(context.Background()); err != nil {
			t.Fatalf("Products: %v", err)
		}
	}
	if store.calls != 2 {
		t.Errorf("store read %d times, want 2", store.calls)
	}
	l.Invalidate(context.Background())
}

func TestProducts_StoreError(t *testing.T) {
	boom := errors.New("connection reset")
	snap := &fakeSnapshot{}
	l := NewLoader(&fakeProducts{err: boom}, &fakeLikes{}, snap, testSettings())

	_, err := l.Products(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
	if snap.sets != 0 {
		t.Error("a failed read must not be cached")
	}
}

func TestProducts_BreakerOpens(t *testing.T) {
	store := &fakeProducts{err: errors.New("timeout")}
	l := NewLoader(store, &fakeLikes{}, nil, testSettings())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := l.Products(ctx); err == nil {
			t.Fatal("expected an error")
		}
	}
	if l.PoolState() != gobreaker.StateOpen.String() {
		t.Fatalf("breaker state = %s, want open", l.PoolState())
	}

	_, err := l.Products(ctx)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("err = %v, want ErrOpenState", err)
	}
	if store.calls != 3 {
		t.Errorf("store called %d times, want 3 (open breaker must short-circuit)", store.calls)
	}
}

func TestProducts_CancellationDoesNotTrip(t *testing.T) {
	store := &fakeProducts{err: context.Canceled}
	l := NewLoader(store, &fakeLikes{}, nil, testSettings())

	for i := 0; i < 5; i++ {
		if _, err := l.Products(context.Background()); !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	}
	if l.PoolState() != gobreaker.StateClosed.String() {
		t.Errorf("breaker state = %s, want closed", l.PoolState())
	}
}

func TestLikedBy(t *testing.T) {
	user := uuid.New()
	product := uuid.New()
	likes := &fakeLikes{set: models.NewLikeSet(user, product)}
	l := NewLoader(&fakeProducts{}, likes, nil, testSettings())

	set, err := l.LikedBy(context.Background(), user)
	if err != nil {
		t.Fatalf("LikedBy: %v", err)
	}
	if !set.Contains(user, product) {
		t.Error("set should contain the liked product")
	}

	boom := errors.New("likes unavailable")
	likes.err = boom
	likes.set = nil
	if _, err := l.LikedBy(context.Background(), user); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestInvalidate(t *testing.T) {
	snap := &fakeSnapshot{products: []models.Product{{Name: "Acme"}}, cached: true}
	l := NewLoader(&fakeProducts{}, &fakeLikes{}, snap, testSettings())

	l.Invalidate(context.Background())
	if snap.invalidated != 1 || snap.cached {
		t.Errorf("invalidated=%d cached=%v", snap.invalidated, snap.cached)
	}
}

// gatedProducts blocks ListAll until release is closed and fails if the
// context it was given has ended by then.
type gatedProducts struct {
	mu       sync.Mutex
	calls    int
	started  chan struct{}
	release  chan struct{}
	products []models.Product
}

func newGatedProducts(products ...models.Product) *gatedProducts {
	return &gatedProducts{
		started:  make(chan struct{}, 16),
		release:  make(chan struct{}),
		products: products,
	}
}

func (g *gatedProducts) ListAll(ctx context.Context) ([]models.Product, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	g.started <- struct{}{}
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.products, nil
}

func (g *gatedProducts) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type loadResult struct {
	products []models.Product
	err      error
}

func TestProducts_ConcurrentMissesShareOneRead(t *testing.T) {
	store := newGatedProducts(models.Product{Name: "Acme"})
	l := NewLoader(store, &fakeLikes{}, nil, testSettings())

	const callers = 5
	results := make(chan loadResult, callers)
	for range callers {
		go func() {
			products, err := l.Products(context.Background())
			results <- loadResult{products, err}
		}()
	}

	<-store.started
	time.Sleep(50 * time.Millisecond) // let the other callers join the read
	close(store.release)

	for range callers {
		r := <-results
		if r.err != nil || len(r.products) != 1 {
			t.Errorf("got %d products, err %v", len(r.products), r.err)
		}
	}
	if n := store.callCount(); n != 1 {
		t.Errorf("store read %d times, want 1", n)
	}
}

func TestProducts_CanceledCallerDoesNotFailOthers(t *testing.T) {
	store := newGatedProducts(models.Product{Name: "Acme"}, models.Product{Name: "Boxly"})
	snap := &fakeSnapshot{}
	l := NewLoader(store, &fakeLikes{}, snap, testSettings())

	ctxA, cancelA := context.WithCancel(context.Background())
	resultA := make(chan loadResult, 1)
	go func() {
		products, err := l.Products(ctxA)
		resultA <- loadResult{products, err}
	}()
	<-store.started

	resultB := make(chan loadResult, 1)
	go func() {
		products, err := l.Products(context.Background())
		resultB <- loadResult{products, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancelA()
	a := <-resultA
	if !errors.Is(a.err, context.Canceled) {
		t.Errorf("canceled caller: err = %v, want context.Canceled", a.err)
	}

	close(store.release)
	b := <-resultB
	if b.err != nil {
		t.Fatalf("waiting caller: %v", b.err)
	}
	if len(b.products) != 2 {
		t.Errorf("waiting caller got %d products, want 2", len(b.products))
	}
	if snap.sets != 1 {
		t.Errorf("snapshot sets = %d, want 1", snap.sets)
	}
	if l.PoolState() != gobreaker.StateClosed.String() {
		t.Errorf("breaker state = %s, want closed", l.PoolState())
	}
}
