package flashcard

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestFlatten_TwoFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "greeting.json"), []byte(`[{"words":[{"text":"Hel"},{"text":"lo"}]}]`))
	writeFile(t, filepath.Join(dir, "planet.json"), []byte(`[{"words":[{"text":"Wor"},{"text":"ld"}]}]`))

	cards, err := Flatten(dir)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, got %d", len(cards))
	}

	if cards[0].Sentence != "Hello" || cards[0].Audio != "[sound:greeting]" {
		t.Errorf("Unexpected first card: %+v", cards[0])
	}
	if cards[1].Sentence != "World" || cards[1].Audio != "[sound:planet]" {
		t.Errorf("Unexpected second card: %+v", cards[1])
	}
	for _, c := range cards {
		if c.Translation != "" || c.Notes != "" {
			t.Errorf("Expected empty translation and notes, got %+v", c)
		}
	}
}

func TestFlatten_SegmentOrderAndBOM(t *testing.T) {
	dir := t.TempDir()
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`[
		{"words":[{"text":"One"},{"text":"."}]},
		{"words":[]},
		{"words":[{"text":"Two "},{"text":"three"}]}
	]`)...)
	writeFile(t, filepath.Join(dir, "ep1.json"), content)
	if err := os.Mkdir(filepath.Join(dir, "subdir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cards, err := Flatten(dir)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}

	want := []string{"One.", "", "Two three"}
	if len(cards) != len(want) {
		t.Fatalf("Expected %d cards, got %d", len(want), len(cards))
	}
	for i, w := range want {
		if cards[i].Sentence != w {
			t.Errorf("card %d: expected sentence '%s', got '%s'", i, w, cards[i].Sentence)
		}
		if cards[i].Segment != i {
			t.Errorf("card %d: expected segment %d, got %d", i, i, cards[i].Segment)
		}
	}
}

func TestFlatten_ParseErrorAbortsBatch(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"invalid json", `{not-json`},
		{"top-level object", `{"words":[{"text":"x"}]}`},
		{"null document", `null`},
		{"segment without words", `[{"text":"no words key"}]`},
		{"segment with null words", `[{"words":null}]`},
		{"null segment", `[null]`},
		{"words not a list", `[{"words":"abc"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "a.json"), []byte(`[{"words":[{"text":"ok"}]}]`))
			writeFile(t, filepath.Join(dir, "b.json"), []byte(tt.content))

			cards, err := Flatten(dir)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *ParseError, got %v (cards=%v)", err, cards)
			}
			if filepath.Base(parseErr.File) != "b.json" {
				t.Errorf("Expected failing file b.json, got %s", parseErr.File)
			}
			if cards != nil {
				t.Errorf("Expected no cards on failure, got %d", len(cards))
			}
		})
	}
}

func TestFlatten_EmptyDocumentAndEmptySegment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "empty.json"), []byte(`[]`))
	writeFile(t, filepath.Join(dir, "silent.json"), []byte(`[{"words":[]}]`))

	cards, err := Flatten(dir)
	if err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	if len(cards) != 1 || cards[0].Sentence != "" || cards[0].Audio != "[sound:silent]" {
		t.Errorf("Expected one empty card for silent.json, got %+v", cards)
	}
}

func TestFlatten_MissingDirectory(t *testing.T) {
	if _, err := Flatten(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("Expected error for missing directory, got nil")
	}
}

func TestAudioReference(t *testing.T) {
	tests := map[string]string{
		"clip.json":      "[sound:clip]",
		"clip.json.json": "[sound:clip.json]",
		"clip.mp3":       "[sound:clip.mp3]",
	}
	for in, want := range tests {
		if got := AudioReference(in); got != want {
			t.Errorf("AudioReference(%q) = %q, want %q", in, got, want)
		}
	}
}
