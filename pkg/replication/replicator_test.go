package replication

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"

	"transcript-export/pkg/domain"
)

type mockSource struct {
	cards []domain.Flashcard
	err   error
}

func (m *mockSource) ListFlashcards(ctx context.Context) ([]domain.Flashcard, error) {
	return m.cards, m.err
}

type mockSink struct {
	mu      sync.Mutex
	batches [][]domain.Flashcard
	failOn  int
}

func (m *mockSink) SaveFlashcards(ctx context.Context, cards []domain.Flashcard) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn > 0 && cards[0].Segment == m.failOn {
		return errors.New("insert failed")
	}
	m.batches = append(m.batches, cards)
	return nil
}

func makeCards(n int) []domain.Flashcard {
	cards := make([]domain.Flashcard, n)
	for i := range cards {
		cards[i] = domain.Flashcard{Sentence: fmt.Sprintf("s%d", i), Audio: "[sound:a]", Segment: i}
	}
	return cards
}

func TestNewReplicator_RequiresSourceAndSink(t *testing.T) {
	if _, err := NewReplicator(Config{Sink: &mockSink{}}); err == nil {
		t.Error("Expected error without source")
	}
	if _, err := NewReplicator(Config{Source: &mockSource{}}); err == nil {
		t.Error("Expected error without sink")
	}
}

func TestReplicator_Replicate(t *testing.T) {
	tests := []struct {
		name        string
		cards       int
		batchSize   int
		wantBatches int
	}{
		{"empty archive", 0, 10, 0},
		{"single partial batch", 7, 10, 1},
		{"exact batches", 20, 10, 2},
		{"trailing partial batch", 25, 10, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &mockSink{}
			r, err := NewReplicator(Config{
				Source:    &mockSource{cards: makeCards(tt.cards)},
				Sink:      sink,
				BatchSize: tt.batchSize,
				Workers:   3,
			})
			if err != nil {
				t.Fatalf("NewReplicator failed: %v", err)
			}

			n, err := r.Replicate(context.Background())
			if err != nil {
				t.Fatalf("Replicate failed: %v", err)
			}
			if n != tt.cards {
				t.Errorf("Expected %d processed, got %d", tt.cards, n)
			}
			if len(sink.batches) != tt.wantBatches {
				t.Errorf("Expected %d batches, got %d", tt.wantBatches, len(sink.batches))
			}

			var segments []int
			for _, b := range sink.batches {
				for _, c := range b {
					segments = append(segments, c.Segment)
				}
			}
			sort.Ints(segments)
			for i, s := range segments {
				if s != i {
					t.Fatalf("Expected every card exactly once, got %v", segments)
				}
			}
		})
	}
}

func TestReplicator_SinkFailure(t *testing.T) {
	r, _ := NewReplicator(Config{
		Source:    &mockSource{cards: makeCards(30)},
		Sink:      &mockSink{failOn: 10},
		BatchSize: 10,
		Workers:   1,
	})

	_, err := r.Replicate(context.Background())
	if err == nil {
		t.Fatal("Expected batch failure, got nil")
	}
}

func TestReplicator_SourceFailure(t *testing.T) {
	r, _ := NewReplicator(Config{Source: &mockSource{err: errors.New("mongo down")}, Sink: &mockSink{}})

	if _, err := r.Replicate(context.Background()); err == nil {
		t.Fatal("Expected source failure, got nil")
	}
}

func TestCalculateBatchEnd(t *testing.T) {
	if got := calculateBatchEnd(90, 100, 150); got != 150 {
		t.Errorf("Expected 150, got %d", got)
	}
	if got := calculateBatchEnd(0, 100, 150); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
}
