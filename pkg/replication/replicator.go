package replication

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"transcript-export/pkg/domain"
)

const (
	defaultBatchSize = 100
	defaultWorkers   = 5
)

// FlashcardSource lists every archived flashcard.
type FlashcardSource interface {
	ListFlashcards(ctx context.Context) ([]domain.Flashcard, error)
}

// FlashcardSink stores a batch of flashcards. Sinks must ignore rows they already hold.
type FlashcardSink interface {
	SaveFlashcards(ctx context.Context, cards []domain.Flashcard) error
}

// Config wires the replication dependencies.
type Config struct {
	Source FlashcardSource
	Sink   FlashcardSink

	BatchSize int
	Workers   int
}

// Replicator copies the flashcard archive from one store to another, e.g. Mongo to Postgres.
//
// This is a one-shot "copy everything" flow; the sink's own conflict handling makes re-runs safe.
type Replicator struct {
	source    FlashcardSource
	sink      FlashcardSink
	batchSize int
	workers   int
}

func NewReplicator(cfg Config) (*Replicator, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("flashcard source is required")
	}
	if cfg.Sink == nil {
		return nil, fmt.Errorf("flashcard sink is required")
	}

	r := &Replicator{
		source:    cfg.Source,
		sink:      cfg.Sink,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
	}
	if r.batchSize <= 0 {
		r.batchSize = defaultBatchSize
	}
	if r.workers <= 0 {
		r.workers = defaultWorkers
	}
	return r, nil
}

// Replicate reads every flashcard from the source and writes it to the sink in batches.
// It returns the number of flashcards handed to the sink and stops at the first failed batch.
func (r *Replicator) Replicate(ctx context.Context) (int, error) {
	cards, err := r.source.ListFlashcards(ctx)
	if err != nil {
		return 0, fmt.Errorf("list flashcards: %w", err)
	}

	log.Printf("Replicator: loaded %d flashcards, processing in batches of %d...", len(cards), r.batchSize)

	processed, err := r.processBatches(ctx, cards)
	if err != nil {
		return processed, err
	}

	log.Printf("Replicator: complete, processed %d flashcards", processed)
	return processed, nil
}

// processBatches fans the batches out to a fixed number of workers and fails fast on error.
func (r *Replicator) processBatches(ctx context.Context, cards []domain.Flashcard) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	var mu sync.Mutex
	total := 0

	for start := 0; start < len(cards); start += r.batchSize {
		end := calculateBatchEnd(start, r.batchSize, len(cards))
		batch := cards[start:end]

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := r.sink.SaveFlashcards(gctx, batch); err != nil {
				return fmt.Errorf("save batch [%d:%d]: %w", start, end, err)
			}

			mu.Lock()
			total += len(batch)
			done := total
			mu.Unlock()

			logProgress(done, len(cards))
			return nil
		})
	}

	err := g.Wait()
	return total, err
}

// calculateBatchEnd calculates the end index for a batch, ensuring it doesn't exceed the total length.
func calculateBatchEnd(start, batchSize, totalLen int) int {
	end := start + batchSize
	if end > totalLen {
		return totalLen
	}
	return end
}

func logProgress(processed, total int) {
	if processed%1000 == 0 || processed == total {
		log.Printf("Replicator: progress %d/%d flashcards", processed, total)
	}
}
