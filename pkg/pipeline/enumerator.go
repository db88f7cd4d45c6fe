package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"transcript-export/pkg/domain"
	"transcript-export/pkg/scribe"
)

// PageLister fetches one page of the transcript listing.
type PageLister interface {
	ListTranscripts(ctx context.Context, pageURL string) (*scribe.Page, error)
}

// IDStore persists the enumerated transcript IDs between runs.
type IDStore interface {
	Exists() (bool, error)
	Load() ([]domain.TranscriptID, error)
	Save(ids []domain.TranscriptID) error
}

// Enumerator walks the paginated transcript listing and checkpoints the collected IDs.
type Enumerator struct {
	lister PageLister
	store  IDStore
	out    io.Writer

	// CheckpointPolicy decides what a failed checkpoint write does. Defaults to LogAndContinue.
	CheckpointPolicy FailurePolicy
}

// NewEnumerator creates an enumerator that reports progress to out.
func NewEnumerator(lister PageLister, store IDStore, out io.Writer) *Enumerator {
	if out == nil {
		out = io.Discard
	}
	return &Enumerator{
		lister:           lister,
		store:            store,
		out:              out,
		CheckpointPolicy: LogAndContinue,
	}
}

// Enumerate fetches pages starting at startURL, one at a time, and returns all IDs in page order.
// It stops at the first page with no results, even if that page links to another one, or at a
// non-empty page without a next link. A page fetch failure aborts without writing a checkpoint.
func (e *Enumerator) Enumerate(ctx context.Context, startURL string) ([]domain.TranscriptID, error) {
	fmt.Fprintln(e.out, "Retrieving transcript IDs...")

	var ids []domain.TranscriptID
	pageURL := startURL

	for pageNum := 1; ; pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, newError(KindTransport, StageEnumerate, err)
		}

		page, err := e.lister.ListTranscripts(ctx, pageURL)
		if err != nil {
			return nil, enumerateError(err)
		}

		pageIDs := page.IDs()
		if len(pageIDs) == 0 {
			log.Printf("Enumerator: page %d is empty - stopping pagination", pageNum)
			break
		}
		ids = append(ids, pageIDs...)
		log.Printf("Enumerator: page %d returned %d IDs (%d total)", pageNum, len(pageIDs), len(ids))

		next := page.NextURL()
		if next == "" {
			log.Printf("Enumerator: page %d has no next link - stopping pagination", pageNum)
			break
		}
		pageURL = next
	}

	fmt.Fprintln(e.out, "Completed.")
	fmt.Fprintln(e.out)

	if err := e.store.Save(ids); err != nil {
		if e.CheckpointPolicy == Abort {
			return ids, newError(KindIO, StageCheckpoint, err)
		}
		log.Printf("Enumerator: failed to write IDs to disk: %v", err)
		fmt.Fprintf(e.out, "Failed to write IDs to disk: %v\n", err)
		return ids, nil
	}

	fmt.Fprintln(e.out, "Re-run application to get export ID.")
	return ids, nil
}

func enumerateError(err error) error {
	if errors.Is(err, scribe.ErrMalformedResponse) {
		return newError(KindParse, StageEnumerate, err)
	}
	return newError(KindTransport, StageEnumerate, err)
}
