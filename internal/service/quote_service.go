package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"typetracker/internal/engine"
	"typetracker/internal/genai"
	"typetracker/internal/models"
)

const (
	// poolThreshold is the pool size below which a refill batch is generated
	poolThreshold = 25
	// batchSize is how many quotes a refill batch contains
	batchSize = 20
	// maxGeneratedPerBatch caps how many of a batch come from the model,
	// the rest is padded with static sentences
	maxGeneratedPerBatch = 10
	// rotateCount is how many of the oldest quotes a rotation discards
	rotateCount = 20
)

// TextGenerator produces a single typing-practice quote
type TextGenerator interface {
	GenerateQuote(ctx context.Context) (string, error)
}

// Alerter notifies an operator that quote generation is degraded
type Alerter interface {
	SendGenerationAlert(ctx context.Context, reason string) error
}

// quotePool is the storage surface the quote service needs
type quotePool interface {
	List() ([]models.Quote, error)
	Count() (int, error)
	InsertBatch(texts []string) error
	Delete(id int64) (bool, error)
	DeleteOldest(n int) (int, error)
	SaveStored(userID, text string) (*models.StoredQuote, error)
	GetStoredByUser(userID string) ([]models.StoredQuote, error)
}

// QuoteService maintains the shared pool of typing-practice quotes
type QuoteService struct {
	pool      quotePool
	generator TextGenerator
	alerter   Alerter

	mu         sync.Mutex
	seeded     bool
	generating bool
}

// NewQuoteService creates a new quote service. alerter may be nil.
func NewQuoteService(pool quotePool, generator TextGenerator, alerter Alerter) *QuoteService {
	return &QuoteService{
		pool:      pool,
		generator: generator,
		alerter:   alerter,
	}
}

// EnsurePool tops the pool up in the background when it runs low. An empty
// pool is seeded from the static sentence list before any model generation,
// once per process. At most one refill runs at a time.
func (s *QuoteService) EnsurePool(ctx context.Context) error {
	count, err := s.pool.Count()
	if err != nil {
		return fmt.Errorf("failed to count quote pool: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if count >= poolThreshold {
		s.seeded = true
		return nil
	}
	if s.generating {
		return nil
	}

	// A pool that is empty and has never been filled this process gets the
	// static sentences immediately, model generation waits for the next pass
	if count == 0 && !s.seeded {
		if err := s.pool.InsertBatch(engine.Sentences); err != nil {
			return fmt.Errorf("failed to seed quote pool: %w", err)
		}
		s.seeded = true
		log.Printf("Seeded empty quote pool with %d static sentences", len(engine.Sentences))
		return nil
	}

	s.generating = true
	go s.refill(context.WithoutCancel(ctx))
	return nil
}

// refill generates one batch and stores it. Runs in its own goroutine.
func (s *QuoteService) refill(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.generating = false
		s.seeded = true
		s.mu.Unlock()
	}()

	log.Println("Generating new quotes...")
	batch, generated := s.generateBatch(ctx)

	if err := s.pool.InsertBatch(batch); err != nil {
		log.Printf("Failed to store quote batch: %v", err)
		return
	}

	log.Printf("Quote pool refilled: %d stored, %d model-generated", len(batch), generated)

	if generated == 0 && s.alerter != nil {
		reason := fmt.Sprintf("quote generation produced no model output, batch of %d filled from static sentences", len(batch))
		if err := s.alerter.SendGenerationAlert(ctx, reason); err != nil {
			log.Printf("Failed to send generation alert: %v", err)
		}
	}
}

// generateBatch builds a full batch of quotes. Up to maxGeneratedPerBatch
// come from the model. A rate limit stops model calls for the rest of the
// batch and static sentences fill any gap. Returns the batch and how many
// quotes the model produced.
func (s *QuoteService) generateBatch(ctx context.Context) ([]string, int) {
	batch := make([]string, 0, batchSize)
	generated := 0

	for i := 0; i < maxGeneratedPerBatch; i++ {
		quote, err := s.generator.GenerateQuote(ctx)
		if err != nil {
			log.Printf("Error generating quote %d: %v", i+1, err)
			if errors.Is(err, genai.ErrRateLimited) {
				log.Println("Rate limit hit, stopping batch generation")
				break
			}
			batch = append(batch, randomSentence())
			continue
		}
		batch = append(batch, quote)
		generated++
	}

	for len(batch) < batchSize {
		batch = append(batch, randomSentence())
	}

	return batch[:batchSize], generated
}

// Status reports whether the pool has ever been filled and whether a
// refill is currently running
func (s *QuoteService) Status() (seeded, generating bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seeded, s.generating
}

// RandomQuote picks a random quote from the pool, falling back to a
// static sentence when the pool is empty
func (s *QuoteService) RandomQuote(ctx context.Context) (models.Quote, error) {
	if err := s.EnsurePool(ctx); err != nil {
		return models.Quote{}, err
	}

	quotes, err := s.pool.List()
	if err != nil {
		return models.Quote{}, fmt.Errorf("failed to list quote pool: %w", err)
	}
	if len(quotes) == 0 {
		return models.Quote{Text: randomSentence()}, nil
	}
	return quotes[rand.Intn(len(quotes))], nil
}

// RemoveQuote retires a used quote from the pool without blocking the
// caller, then tops the pool back up
func (s *QuoteService) RemoveQuote(ctx context.Context, id int64) {
	if id == 0 {
		return
	}
	bg := context.WithoutCancel(ctx)
	go func() {
		if _, err := s.pool.Delete(id); err != nil {
			log.Printf("Failed to remove used quote %d: %v", id, err)
			return
		}
		if err := s.EnsurePool(bg); err != nil {
			log.Printf("Failed to top up quote pool: %v", err)
		}
	}()
}

// Rotate discards the oldest quotes and refills the pool
func (s *QuoteService) Rotate(ctx context.Context) (int, error) {
	deleted, err := s.pool.DeleteOldest(rotateCount)
	if err != nil {
		return 0, fmt.Errorf("failed to rotate quote pool: %w", err)
	}
	if err := s.EnsurePool(ctx); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// SaveStoredQuote saves a quote to a signed-in user's collection
func (s *QuoteService) SaveStoredQuote(userID, text string) (*models.StoredQuote, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if text == "" {
		return nil, fmt.Errorf("quote text is empty")
	}
	return s.pool.SaveStored(userID, text)
}

// StoredQuotes returns a signed-in user's saved quotes
func (s *QuoteService) StoredQuotes(userID string) ([]models.StoredQuote, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.pool.GetStoredByUser(userID)
}

func randomSentence() string {
	return engine.Sentences[rand.Intn(len(engine.Sentences))]
}
