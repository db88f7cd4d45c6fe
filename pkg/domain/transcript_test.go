package domain

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTranscriptID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []TranscriptID
		wantErr bool
	}{
		{name: "strings", input: `["a1","b2"]`, want: []TranscriptID{"a1", "b2"}},
		{name: "numbers", input: `[12, 345]`, want: []TranscriptID{"12", "345"}},
		{name: "mixed", input: `["x", 7]`, want: []TranscriptID{"x", "7"}},
		{name: "object", input: `[{"id":1}]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []TranscriptID
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Expected %d IDs, got %d", len(tt.want), len(got))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ID %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTranscriptID_MarshalsAsString(t *testing.T) {
	data, err := json.Marshal([]TranscriptID{"12", "abc"})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `["12","abc"]` {
		t.Errorf("Expected [\"12\",\"abc\"], got %s", data)
	}
}

func TestSegment_Sentence(t *testing.T) {
	seg := Segment{Words: []Word{{Text: "Hel"}, {Text: "lo"}, {Text: ", "}, {Text: "you"}}}
	if got := seg.Sentence(); got != "Hello, you" {
		t.Errorf("Expected 'Hello, you', got '%s'", got)
	}

	if got := (Segment{}).Sentence(); got != "" {
		t.Errorf("Expected empty sentence, got '%s'", got)
	}
}

func TestSegment_UnmarshalJSON(t *testing.T) {
	var seg Segment
	if err := json.Unmarshal([]byte(`{"words":[{"text":"a"},{"text":"b"}]}`), &seg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if seg.Sentence() != "ab" {
		t.Errorf("Expected 'ab', got '%s'", seg.Sentence())
	}

	for _, input := range []string{`{}`, `{"words":null}`, `{"text":"x"}`} {
		var s Segment
		if err := json.Unmarshal([]byte(input), &s); !errors.Is(err, ErrMissingWords) {
			t.Errorf("Unmarshal(%s): expected ErrMissingWords, got %v", input, err)
		}
	}
}
