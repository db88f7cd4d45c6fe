package db

import (
	"context"
	"strings"
	"testing"
	"time"

	"transcript-export/pkg/domain"

	"go.mongodb.org/mongo-driver/bson"
)

func TestPostgresClient_Connect_RequiresDSN(t *testing.T) {
	client := NewPostgresClient(PostgresConfig{})
	err := client.Connect(context.Background())
	if err == nil {
		t.Fatal("Expected error for empty DSN, got nil")
	}
	if !strings.Contains(err.Error(), "DSN is required") {
		t.Errorf("Expected DSN error, got: %v", err)
	}
}

func TestPostgresClient_SaveFlashcards_NotConnected(t *testing.T) {
	client := NewPostgresClient(PostgresConfig{DSN: "postgres://localhost/none"})
	err := client.SaveFlashcards(context.Background(), []domain.Flashcard{{Sentence: "x"}})
	if err == nil {
		t.Fatal("Expected error for unconnected client, got nil")
	}
	if client.Close() != nil {
		t.Error("Expected Close on unconnected client to succeed")
	}
}

func TestClient_SaveFlashcards_NotInitialized(t *testing.T) {
	client := &Client{}
	if err := client.SaveFlashcards(context.Background(), []domain.Flashcard{{Sentence: "x"}}); err == nil {
		t.Fatal("Expected error for uninitialized collection, got nil")
	}
	if err := client.Connect(context.Background()); err == nil {
		t.Fatal("Expected error connecting uninitialized client, got nil")
	}
	if err := client.Close(context.Background()); err != nil {
		t.Errorf("Expected Close on uninitialized client to succeed, got %v", err)
	}
}

func TestClient_ListFlashcards_NotInitialized(t *testing.T) {
	client := &Client{}
	if _, err := client.ListFlashcards(context.Background()); err == nil {
		t.Fatal("Expected error for uninitialized collection, got nil")
	}
}

// Test Case: TestFlashcardUpsert_CreatedAtOnlyOnInsert
// Input: a flashcard re-saved by a later csv run
// Expected Output: text fields go to $set, created_at only to $setOnInsert
func TestFlashcardUpsert_CreatedAtOnlyOnInsert(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	card := domain.Flashcard{Sentence: "Hello", Audio: "[sound:a]", Segment: 2, CreatedAt: created}

	update := flashcardUpsert(card)

	set, ok := update["$set"].(bson.M)
	if !ok {
		t.Fatalf("Expected $set document, got %T", update["$set"])
	}
	if _, found := set["created_at"]; found {
		t.Error("Expected created_at to be absent from $set")
	}
	if set["sentence"] != "Hello" || set["audio"] != "[sound:a]" || set["segment"] != 2 {
		t.Errorf("Unexpected $set fields: %v", set)
	}

	onInsert, ok := update["$setOnInsert"].(bson.M)
	if !ok {
		t.Fatalf("Expected $setOnInsert document, got %T", update["$setOnInsert"])
	}
	if got, _ := onInsert["created_at"].(time.Time); !got.Equal(created) {
		t.Errorf("Expected created_at %v in $setOnInsert, got %v", created, onInsert["created_at"])
	}
}
