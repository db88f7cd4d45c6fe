// Package flashcard turns extracted transcript documents into flashcard rows and writes them out.
package flashcard

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"transcript-export/pkg/bom"
	"transcript-export/pkg/domain"
)

var errNullDocument = errors.New("transcript is null, expected a segment list")

// ParseError reports a transcript file that is not a valid segment list.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse transcript %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// AudioReference returns the flashcard audio field for a transcript file name:
// the first ".json" is removed and the rest wrapped as "[sound:<name>]".
func AudioReference(fileName string) string {
	return fmt.Sprintf("[sound:%s]", strings.Replace(fileName, ".json", "", 1))
}

// Flatten reads every file directly inside dir (no recursion, subdirectories skipped) and
// emits one flashcard per transcript segment. Files are visited in name order, segments in
// file order. The first file that fails to parse aborts the whole batch.
func Flatten(dir string) ([]domain.Flashcard, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read transcript directory: %w", err)
	}

	now := time.Now().UTC()
	var cards []domain.Flashcard
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		doc, err := readDocument(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		audio := AudioReference(entry.Name())
		for i, seg := range doc {
			cards = append(cards, domain.Flashcard{
				Sentence:  seg.Sentence(),
				Audio:     audio,
				Segment:   i,
				CreatedAt: now,
			})
		}
	}

	return cards, nil
}

func readDocument(path string) (domain.TranscriptDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript %s: %w", path, err)
	}

	var doc domain.TranscriptDocument
	if err := json.Unmarshal(bom.Strip(data), &doc); err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	if doc == nil {
		return nil, &ParseError{File: path, Err: errNullDocument}
	}
	return doc, nil
}
