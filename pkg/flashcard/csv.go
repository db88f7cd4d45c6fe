package flashcard

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"transcript-export/pkg/domain"
)

const (
	CSVFileName  = "output.csv"
	CSVDelimiter = ';'
)

// CSVHeader is the column row written at the start of every append.
var CSVHeader = []string{"SENTENCE", "TRANSLATION", "NOTES", "AUDIO"}

// Saver persists a batch of flashcards.
type Saver interface {
	SaveFlashcards(ctx context.Context, cards []domain.Flashcard) error
}

// WriteCSV appends cards to <destDir>/output.csv, creating the directory and file as needed.
// The header row is written on every call, so repeated runs also repeat the header.
func WriteCSV(cards []domain.Flashcard, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(destDir, CSVFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}

	w := csv.NewWriter(f)
	w.Comma = CSVDelimiter

	if err := w.Write(CSVHeader); err != nil {
		f.Close()
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, c := range cards {
		if err := w.Write(c.CSVRecord()); err != nil {
			f.Close()
			return "", fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flush csv: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// CSVSaver is a Saver that appends to the CSV file in Dir.
type CSVSaver struct {
	Dir string
}

// NewCSVSaver creates a CSV saver for destDir
func NewCSVSaver(destDir string) *CSVSaver {
	return &CSVSaver{Dir: destDir}
}

// SaveFlashcards appends cards to the CSV file
func (s *CSVSaver) SaveFlashcards(ctx context.Context, cards []domain.Flashcard) error {
	_, err := WriteCSV(cards, s.Dir)
	return err
}

// Path returns the CSV file the saver appends to.
func (s *CSVSaver) Path() string {
	return filepath.Join(s.Dir, CSVFileName)
}
