package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"transcript-export/pkg/archive"
	"transcript-export/pkg/checkpoint"
	"transcript-export/pkg/config"
	"transcript-export/pkg/domain"
	"transcript-export/pkg/flashcard"
	"transcript-export/pkg/scribe"
)

// ExportAPI creates and inspects server-side exports.
type ExportAPI interface {
	CreateExport(ctx context.Context, ids []domain.TranscriptID) (string, error)
	GetExport(ctx context.Context, exportID string) (*domain.ExportJob, error)
}

// ArchiveFetcher downloads an export archive to dest.
type ArchiveFetcher interface {
	Fetch(ctx context.Context, downloadURL, dest string) (string, error)
}

// Config wires the runner's dependencies.
type Config struct {
	Settings   config.Settings
	Lister     PageLister
	Exports    ExportAPI
	Fetcher    ArchiveFetcher
	Checkpoint IDStore

	// Savers receive the flashcards after the CSV file has been written.
	Savers []flashcard.Saver

	// Clipboard receives a newly created export ID. Nil disables it.
	Clipboard func(text string) error

	Out io.Writer
}

// Runner executes one invocation of the export workflow. Each invocation runs exactly one
// branch; state carries over between invocations only through files and the export ID.
type Runner struct {
	settings   config.Settings
	lister     PageLister
	exports    ExportAPI
	fetcher    ArchiveFetcher
	checkpoint IDStore
	savers     []flashcard.Saver
	clipboard  func(string) error
	out        io.Writer
}

// NewRunner creates a runner from cfg
func NewRunner(cfg Config) *Runner {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		settings:   cfg.Settings,
		lister:     cfg.Lister,
		exports:    cfg.Exports,
		fetcher:    cfg.Fetcher,
		checkpoint: cfg.Checkpoint,
		savers:     cfg.Savers,
		clipboard:  cfg.Clipboard,
		out:        out,
	}
}

// Run dispatches on the command-line arguments:
//   - no arguments: enumerate transcript IDs, or request an export when a checkpoint exists
//   - "csv" <destDir>: flatten the extracted transcripts and append them to the CSV file
//   - anything else: treat the first argument as an export ID, then download and extract it
func (r *Runner) Run(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
		return r.EnumerateOrExport(ctx)
	case args[0] == "csv" && len(args) > 1:
		_, err := r.WriteFlashcards(ctx, args[1])
		return err
	default:
		return r.DownloadExport(ctx, args[0])
	}
}

// EnumerateOrExport runs the enumerator on the first run and the export requester once the
// checkpoint file exists.
func (r *Runner) EnumerateOrExport(ctx context.Context) error {
	exists, err := r.checkpoint.Exists()
	if err != nil {
		return newError(KindIO, StageCheckpoint, err)
	}

	if !exists {
		_, err := NewEnumerator(r.lister, r.checkpoint, r.out).Enumerate(ctx, r.settings.TranscriptsURL)
		return err
	}

	ids, err := r.checkpoint.Load()
	if err != nil {
		if errors.Is(err, checkpoint.ErrCorrupt) {
			return newError(KindParse, StageCheckpoint, err)
		}
		return newError(KindIO, StageCheckpoint, err)
	}
	log.Printf("Runner: loaded %d transcript IDs from checkpoint", len(ids))

	_, err = r.RequestExport(ctx, ids)
	return err
}

// RequestExport submits a JSON export for ids and returns the export ID.
// Failures abort the run.
func (r *Runner) RequestExport(ctx context.Context, ids []domain.TranscriptID) (string, error) {
	fmt.Fprintln(r.out, "Creating export...")

	exportID, err := r.exports.CreateExport(ctx, ids)
	if err != nil {
		if errors.Is(err, scribe.ErrMalformedResponse) {
			return "", newError(KindParse, StageExport, err)
		}
		return "", newError(KindTransport, StageExport, err)
	}

	fmt.Fprintf(r.out, "Created export: %s\n\n", exportID)
	fmt.Fprintln(r.out, "Re-run application and supply the export ID.")

	if r.clipboard != nil {
		if err := r.clipboard(exportID); err != nil {
			log.Printf("Runner: warning: could not copy export ID to clipboard: %v", err)
		} else {
			fmt.Fprintln(r.out, "(The export ID has been copied to the clipboard.)")
		}
	}

	return exportID, nil
}

// PollExport checks the export once and returns its download link unchanged.
// An export without a link yields ErrNotReady; there is no internal retry.
func (r *Runner) PollExport(ctx context.Context, exportID string) (string, error) {
	fmt.Fprintln(r.out, "Retrieving export...")

	job, err := r.exports.GetExport(ctx, exportID)
	if err != nil {
		fmt.Fprintln(r.out, "Failed to retrieve export.")
		if errors.Is(err, scribe.ErrMalformedResponse) {
			return "", newError(KindParse, StagePoll, err)
		}
		return "", newError(KindTransport, StagePoll, err)
	}

	if job.State != domain.ExportReady || job.DownloadLink == "" {
		return "", newError(KindNotReady, StagePoll, ErrNotReady)
	}

	fmt.Fprintf(r.out, "Retrieved export: %s\n\n", job.DownloadLink)
	return job.DownloadLink, nil
}

// FetchArchive downloads the export archive to the configured output directory.
func (r *Runner) FetchArchive(ctx context.Context, downloadURL string) (string, error) {
	fmt.Fprintln(r.out, "Downloading transcripts...")

	path, err := r.fetcher.Fetch(ctx, downloadURL, r.settings.ArchivePath())
	if err != nil {
		fmt.Fprintf(r.out, "Unable to download file: %v\n", err)
		var writeErr *archive.WriteError
		if errors.As(err, &writeErr) {
			return "", newError(KindIO, StageDownload, err)
		}
		return "", newError(KindTransport, StageDownload, err)
	}

	fmt.Fprintf(r.out, "Downloaded transcripts: %s\n\n", path)
	return path, nil
}

// ExtractArchive unzips the archive into the configured JSON directory.
func (r *Runner) ExtractArchive(archivePath string) (bool, error) {
	fmt.Fprintln(r.out, "Extracting transcripts...")

	n, err := archive.Extract(archivePath, r.settings.JSONDir())
	if err != nil {
		return false, newError(KindIO, StageExtract, err)
	}
	log.Printf("Runner: extracted %d files to %s", n, r.settings.JSONDir())

	fmt.Fprintf(r.out, "Extraction complete: %s\n\n", r.settings.OutputDir)
	fmt.Fprintln(r.out, "Re-run application with arguments 'csv' and the output location.")
	return true, nil
}

// DownloadExport polls, downloads and extracts an export in sequence.
func (r *Runner) DownloadExport(ctx context.Context, exportID string) error {
	link, err := r.PollExport(ctx, exportID)
	if err != nil {
		return err
	}

	path, err := r.FetchArchive(ctx, link)
	if err != nil {
		return err
	}

	_, err = r.ExtractArchive(path)
	return err
}

// WriteFlashcards flattens the extracted transcripts, appends them to <destDir>/output.csv and
// hands them to any additional savers. It returns the number of flashcards written.
func (r *Runner) WriteFlashcards(ctx context.Context, destDir string) (int, error) {
	cards, err := flashcard.Flatten(r.settings.JSONDir())
	if err != nil {
		var parseErr *flashcard.ParseError
		if errors.As(err, &parseErr) {
			return 0, newError(KindParse, StageFlatten, err)
		}
		return 0, newError(KindIO, StageFlatten, err)
	}

	path, err := flashcard.WriteCSV(cards, destDir)
	if err != nil {
		return 0, newError(KindIO, StageCSV, err)
	}
	fmt.Fprintf(r.out, "Successfully wrote CSV file to %s\n", path)

	for _, saver := range r.savers {
		if err := saver.SaveFlashcards(ctx, cards); err != nil {
			return len(cards), newError(KindIO, StageArchive, err)
		}
	}
	if len(r.savers) > 0 {
		fmt.Fprintf(r.out, "Archived %d flashcards.\n", len(cards))
	}

	return len(cards), nil
}
