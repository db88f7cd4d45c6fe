package pipeline

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by the poller while the export has no download link yet.
var ErrNotReady = errors.New("download link currently unavailable; wait a moment and try again")

// Kind classifies a stage failure for presentation.
type Kind string

const (
	KindTransport Kind = "transport"
	KindNotReady  Kind = "not_ready"
	KindIO        Kind = "io"
	KindParse     Kind = "parse"
	KindConfig    Kind = "config"
)

// Stage names one step of the pipeline.
type Stage string

const (
	StageConfig     Stage = "config"
	StageCheckpoint Stage = "checkpoint"
	StageEnumerate  Stage = "enumerate"
	StageExport     Stage = "export"
	StagePoll       Stage = "poll"
	StageDownload   Stage = "download"
	StageExtract    Stage = "extract"
	StageFlatten    Stage = "flatten"
	StageCSV        Stage = "csv"
	StageArchive    Stage = "archive"
)

// FailurePolicy says what a stage does when a side effect fails.
type FailurePolicy int

const (
	// Abort returns the failure to the caller.
	Abort FailurePolicy = iota
	// LogAndContinue logs the failure and carries on with the in-memory result.
	LogAndContinue
)

// Error is a stage-aware failure surfaced to the command line.
type Error struct {
	Kind  Kind
	Stage Stage
	Err   error
}

// Error formats pipeline failures for logs and the terminal.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap exposes underlying error for errors.Is / errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Hint returns actionable guidance for the failure kind.
func (e *Error) Hint() string {
	switch e.Kind {
	case KindNotReady:
		return "The export is still being prepared. Re-run with the same export ID in a moment."
	case KindTransport:
		return "Check your network connection, the Authorization value in the config file and the export ID."
	case KindParse:
		return "A file or response was not valid JSON in the expected shape."
	case KindIO:
		return "Check that the paths exist and are writable."
	case KindConfig:
		return "Create config.json containing [{\"Authorization\": \"<token>\"}]."
	default:
		return ""
	}
}

func newError(kind Kind, stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	return &Error{Kind: kind, Stage: stage, Err: err}
}
