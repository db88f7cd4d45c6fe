package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingWords is returned when a transcript segment has no words list.
var ErrMissingWords = errors.New("segment has no words list")

// TranscriptID identifies one transcript on the remote service.
// The listing endpoint may return it as a JSON string or a JSON number; both decode to the
// literal text. It always encodes as a JSON string.
type TranscriptID string

// UnmarshalJSON accepts both string and numeric IDs.
func (id *TranscriptID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TranscriptID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("transcript id must be a string or a number, got %s", data)
	}
	*id = TranscriptID(n.String())
	return nil
}

// TranscriptDocument is the content of one extracted per-transcript JSON file.
type TranscriptDocument []Segment

// Segment is one spoken segment of a transcript.
type Segment struct {
	Words []Word `json:"words"`
}

// UnmarshalJSON requires a "words" array; a missing or null list is an error.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw struct {
		Words *[]Word `json:"words"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Words == nil {
		return ErrMissingWords
	}
	s.Words = *raw.Words
	return nil
}

// Word is a single word-level token. Text carries its own spacing and punctuation.
type Word struct {
	Text string `json:"text"`
}

// Sentence concatenates the segment's word texts with no separator.
func (s Segment) Sentence() string {
	var b bytes.Buffer
	for _, w := range s.Words {
		b.WriteString(w.Text)
	}
	return b.String()
}
