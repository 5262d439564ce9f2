package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"typetracker/internal/engine"
	"typetracker/internal/genai"
	"typetracker/internal/models"
)

type fakePool struct {
	mu     sync.Mutex
	quotes []models.Quote
	stored []models.StoredQuote
	nextID int64
}

func newFakePool(texts ...string) *fakePool {
	p := &fakePool{}
	for _, text := range texts {
		p.nextID++
		p.quotes = append(p.quotes, models.Quote{ID: p.nextID, Text: text})
	}
	return p
}

func (p *fakePool) List() ([]models.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.Quote(nil), p.quotes...), nil
}

func (p *fakePool) Count() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.quotes), nil
}

func (p *fakePool) InsertBatch(texts []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, text := range texts {
		p.nextID++
		p.quotes = append(p.quotes, models.Quote{ID: p.nextID, Text: text})
	}
	return nil
}

func (p *fakePool) Delete(id int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, q := range p.quotes {
		if q.ID == id {
			p.quotes = append(p.quotes[:i], p.quotes[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (p *fakePool) DeleteOldest(n int) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n > len(p.quotes) {
		n = len(p.quotes)
	}
	p.quotes = p.quotes[n:]
	return n, nil
}

func (p *fakePool) SaveStored(userID, text string) (*models.StoredQuote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	q := models.StoredQuote{ID: p.nextID, UserID: userID, Text: text}
	p.stored = append(p.stored, q)
	return &q, nil
}

func (p *fakePool) GetStoredByUser(userID string) ([]models.StoredQuote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.StoredQuote
	for _, q := range p.stored {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (g *fakeGenerator) GenerateQuote(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return fmt.Sprintf("Generated practice quote number %d for the pool.", g.calls), nil
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

type fakeAlerter struct {
	mu      sync.Mutex
	reasons []string
}

func (a *fakeAlerter) SendGenerationAlert(ctx context.Context, reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reasons = append(a.reasons, reason)
	return nil
}

func (a *fakeAlerter) alertCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.reasons)
}

// waitForRefill polls until the background refill finishes
func waitForRefill(t *testing.T, s *QuoteService) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, generating := s.Status(); !generating {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("refill did not finish in time")
}

func TestEnsurePoolSeedsEmptyPoolStatically(t *testing.T) {
	pool := newFakePool()
	gen := &fakeGenerator{}
	svc := NewQuoteService(pool, gen, nil)

	if err := svc.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() unexpected error: %v", err)
	}

	if gen.callCount() != 0 {
		t.Errorf("generator calls = %d, want 0 (empty pool seeds from static sentences)", gen.callCount())
	}
	count, _ := pool.Count()
	if count != len(engine.Sentences) {
		t.Errorf("pool count after seed = %d, want %d", count, len(engine.Sentences))
	}
	if seeded, _ := svc.Status(); !seeded {
		t.Error("pool should report seeded after the static seed")
	}

	// The seed happens once per process: a drained pool refills from the
	// model instead of re-seeding
	if _, err := pool.DeleteOldest(count); err != nil {
		t.Fatalf("DeleteOldest() unexpected error: %v", err)
	}
	if err := svc.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() unexpected error: %v", err)
	}
	waitForRefill(t, svc)

	if gen.callCount() != 10 {
		t.Errorf("generator calls = %d, want 10 after the one-time seed", gen.callCount())
	}
}

func TestEnsurePoolRefillsWhenLow(t *testing.T) {
	pool := newFakePool(
		"A handful of quotes sitting well below the refill threshold.",
		"Another quote that keeps the pool from being empty.",
		"A third quote so the static seed path does not apply.",
		"A fourth quote with enough text to be plausible here.",
		"A fifth quote with enough text to be plausible here.",
	)
	gen := &fakeGenerator{}
	svc := NewQuoteService(pool, gen, nil)

	if err := svc.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() unexpected error: %v", err)
	}
	waitForRefill(t, svc)

	count, _ := pool.Count()
	if count != 25 {
		t.Errorf("pool count after refill = %d, want 25", count)
	}
	if gen.callCount() != 10 {
		t.Errorf("generator calls = %d, want 10 (model output capped per batch)", gen.callCount())
	}
	if seeded, _ := svc.Status(); !seeded {
		t.Error("pool should report seeded after the first refill")
	}
}

func TestEnsurePoolSkipsWhenFull(t *testing.T) {
	texts := make([]string, 30)
	for i := range texts {
		texts[i] = fmt.Sprintf("Existing quote %d with enough text to be plausible.", i)
	}
	pool := newFakePool(texts...)
	gen := &fakeGenerator{}
	svc := NewQuoteService(pool, gen, nil)

	if err := svc.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() unexpected error: %v", err)
	}
	waitForRefill(t, svc)

	if gen.callCount() != 0 {
		t.Errorf("generator calls = %d, want 0 when the pool is above threshold", gen.callCount())
	}
}

func TestEnsurePoolSingleRefillInFlight(t *testing.T) {
	pool := newFakePool()
	gen := &fakeGenerator{}
	svc := NewQuoteService(pool, gen, nil)

	// Simulate an in-flight refill: a second call must not start another
	svc.mu.Lock()
	svc.generating = true
	svc.mu.Unlock()

	if err := svc.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() unexpected error: %v", err)
	}

	svc.mu.Lock()
	svc.generating = false
	svc.mu.Unlock()

	if gen.callCount() != 0 {
		t.Errorf("generator calls = %d, want 0 while a refill is in flight", gen.callCount())
	}
	count, _ := pool.Count()
	if count != 0 {
		t.Errorf("pool count = %d, want 0", count)
	}
}

func TestRefillPadsWithStaticOnRateLimit(t *testing.T) {
	pool := newFakePool(
		"A quote that keeps the pool non-empty so a refill batch runs.",
		"Another quote that keeps the pool non-empty for the batch.",
	)
	gen := &fakeGenerator{err: genai.ErrRateLimited}
	alerter := &fakeAlerter{}
	svc := NewQuoteService(pool, gen, alerter)

	if err := svc.EnsurePool(context.Background()); err != nil {
		t.Fatalf("EnsurePool() unexpected error: %v", err)
	}
	waitForRefill(t, svc)

	if gen.callCount() != 1 {
		t.Errorf("generator calls = %d, want 1 (batch stops on rate limit)", gen.callCount())
	}
	count, _ := pool.Count()
	if count != 22 {
		t.Errorf("pool count = %d, want 22 (batch padded with static sentences)", count)
	}
	if alerter.alertCount() != 1 {
		t.Errorf("alerts sent = %d, want 1 when no model output was produced", alerter.alertCount())
	}
}

func TestRandomQuoteFallsBackToStatic(t *testing.T) {
	pool := newFakePool()
	gen := &fakeGenerator{err: genai.ErrRateLimited}
	svc := NewQuoteService(pool, gen, nil)

	// An already-seeded pool drained to empty while a refill is in flight:
	// selection must not block on the pool
	svc.mu.Lock()
	svc.seeded = true
	svc.generating = true
	svc.mu.Unlock()

	quote, err := svc.RandomQuote(context.Background())
	if err != nil {
		t.Fatalf("RandomQuote() unexpected error: %v", err)
	}
	if quote.Text == "" {
		t.Error("RandomQuote() should fall back to a static sentence")
	}
	if gen.callCount() != 0 {
		t.Errorf("generator calls = %d, want 0 (fallback never calls the model)", gen.callCount())
	}
}

func TestRemoveQuote(t *testing.T) {
	texts := make([]string, 30)
	for i := range texts {
		texts[i] = fmt.Sprintf("Pool quote %d with enough text to be plausible here.", i)
	}
	pool := newFakePool(texts...)
	svc := NewQuoteService(pool, &fakeGenerator{}, nil)

	svc.RemoveQuote(context.Background(), 1)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if n, _ := pool.Count(); n == 29 {
			return
		}
		time.Sleep(time.Millisecond)
	}
	n, _ := pool.Count()
	t.Errorf("pool count = %d, want 29 after background removal", n)
}

func TestRotate(t *testing.T) {
	texts := make([]string, 30)
	for i := range texts {
		texts[i] = fmt.Sprintf("Pool quote %d with enough text to be plausible here.", i)
	}
	pool := newFakePool(texts...)
	gen := &fakeGenerator{}
	svc := NewQuoteService(pool, gen, nil)

	deleted, err := svc.Rotate(context.Background())
	if err != nil {
		t.Fatalf("Rotate() unexpected error: %v", err)
	}
	if deleted != 20 {
		t.Errorf("Rotate() deleted = %d, want 20", deleted)
	}
	waitForRefill(t, svc)

	// 10 remained below threshold, so a refill batch of 20 lands on top
	count, _ := pool.Count()
	if count != 30 {
		t.Errorf("pool count after rotate = %d, want 30", count)
	}
}

func TestSaveStoredQuote(t *testing.T) {
	pool := newFakePool()
	svc := NewQuoteService(pool, &fakeGenerator{}, nil)

	t.Run("requires sign-in", func(t *testing.T) {
		if _, err := svc.SaveStoredQuote("", "some text"); err != ErrUnauthenticated {
			t.Errorf("SaveStoredQuote() error = %v, want ErrUnauthenticated", err)
		}
	})

	t.Run("saves for signed-in user", func(t *testing.T) {
		saved, err := svc.SaveStoredQuote("user-1", "A quote worth keeping.")
		if err != nil {
			t.Fatalf("SaveStoredQuote() unexpected error: %v", err)
		}
		if saved.UserID != "user-1" {
			t.Errorf("saved.UserID = %q, want %q", saved.UserID, "user-1")
		}

		quotes, err := svc.StoredQuotes("user-1")
		if err != nil {
			t.Fatalf("StoredQuotes() unexpected error: %v", err)
		}
		if len(quotes) != 1 || quotes[0].Text != "A quote worth keeping." {
			t.Errorf("StoredQuotes() = %v, want the saved quote", quotes)
		}
	})
}
