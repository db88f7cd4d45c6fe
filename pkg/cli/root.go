// Package cli wires the export pipeline behind a single cobra command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"transcript-export/pkg/archive"
	"transcript-export/pkg/checkpoint"
	"transcript-export/pkg/config"
	"transcript-export/pkg/db"
	"transcript-export/pkg/flashcard"
	"transcript-export/pkg/pipeline"
	"transcript-export/pkg/scribe"
)

// NewRootCommand builds the root command with settings from the environment and any .env file.
func NewRootCommand() *cobra.Command {
	return newRootCommand(config.LoadSettings())
}

func newRootCommand(settings config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcript-export [exportID | csv <destDir>]",
		Short: "Export transcripts as flashcards",
		Long: `Runs one step of the transcript export per invocation:

  transcript-export                   collect transcript IDs, then request an export
  transcript-export <exportID>        download and extract a finished export
  transcript-export csv <destDir>     append the extracted transcripts to <destDir>/output.csv`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), settings, cmd.OutOrStdout(), args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&settings.ConfigFile, "config", settings.ConfigFile, "Credential file holding [{\"Authorization\": \"...\"}]")
	flags.StringVar(&settings.TranscriptsURL, "transcripts-url", settings.TranscriptsURL, "Transcript listing endpoint")
	flags.StringVar(&settings.ExportsURL, "exports-url", settings.ExportsURL, "Export endpoint")
	flags.StringVar(&settings.CheckpointFile, "checkpoint", settings.CheckpointFile, "File holding the enumerated transcript IDs")
	flags.StringVar(&settings.OutputDir, "output-dir", settings.OutputDir, "Directory for the downloaded archive and extracted JSON")
	flags.StringVar(&settings.MongoURI, "mongo-uri", settings.MongoURI, "MongoDB connection string; also archive flashcards there on csv")
	flags.StringVar(&settings.MongoDatabase, "mongo-db", settings.MongoDatabase, "MongoDB database name")
	flags.StringVar(&settings.MongoCollection, "mongo-collection", settings.MongoCollection, "MongoDB collection for flashcards")
	flags.StringVar(&settings.PostgresDSN, "postgres-dsn", settings.PostgresDSN, "Postgres DSN; also archive flashcards there on csv")
	flags.BoolVar(&settings.DisableClipboard, "no-clipboard", settings.DisableClipboard, "Do not copy a new export ID to the clipboard")

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		PrintError(cmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// PrintError writes err and, for pipeline failures, its kind, stage and hint.
func PrintError(w io.Writer, err error) {
	var pipeErr *pipeline.Error
	if !errors.As(err, &pipeErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	fmt.Fprintf(w, "Error (%s) in %s: %v\n", pipeErr.Kind, pipeErr.Stage, pipeErr.Err)
	if hint := pipeErr.Hint(); hint != "" {
		fmt.Fprintln(w, hint)
	}
}

func isCSVMode(args []string) bool {
	return len(args) > 1 && args[0] == "csv"
}

func run(ctx context.Context, settings config.Settings, out io.Writer, args []string) error {
	cfg := pipeline.Config{
		Settings:   settings,
		Fetcher:    archive.NewFetcher(),
		Checkpoint: checkpoint.NewStore(settings.CheckpointFile),
		Out:        out,
	}

	if isCSVMode(args) {
		savers, closeSavers, err := openSavers(ctx, settings)
		if err != nil {
			return err
		}
		defer closeSavers()
		cfg.Savers = savers
	} else {
		// Only the API stages need the credential.
		credential, err := config.LoadCredential(settings.ConfigFile)
		if err != nil {
			return &pipeline.Error{Kind: pipeline.KindConfig, Stage: pipeline.StageConfig, Err: err}
		}
		client := scribe.NewClient(credential, settings.ExportsURL)
		cfg.Lister = client
		cfg.Exports = client
	}

	if !settings.DisableClipboard {
		cfg.Clipboard = pipeline.SystemClipboard
	}

	return pipeline.NewRunner(cfg).Run(ctx, args)
}

// openSavers connects the configured archive sinks. The returned func closes every sink opened.
func openSavers(ctx context.Context, settings config.Settings) ([]flashcard.Saver, func(), error) {
	var savers []flashcard.Saver
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if settings.MongoURI != "" {
		mongoClient := db.NewClient(settings.MongoURI, settings.MongoDatabase, settings.MongoCollection)
		if err := mongoClient.Connect(ctx); err != nil {
			return nil, closeAll, &pipeline.Error{Kind: pipeline.KindIO, Stage: pipeline.StageArchive, Err: fmt.Errorf("connect mongo: %w", err)}
		}
		closers = append(closers, func() {
			if err := mongoClient.Close(context.Background()); err != nil {
				log.Printf("CLI: error closing mongo: %v", err)
			}
		})
		savers = append(savers, mongoClient)
		log.Printf("CLI: archiving flashcards to mongo %s.%s", settings.MongoDatabase, settings.MongoCollection)
	}

	if settings.PostgresDSN != "" {
		pg := db.NewPostgresClient(db.PostgresConfig{DSN: settings.PostgresDSN, MaxOpenConns: 2})
		if err := pg.Connect(ctx); err != nil {
			closeAll()
			return nil, func() {}, &pipeline.Error{Kind: pipeline.KindIO, Stage: pipeline.StageArchive, Err: err}
		}
		closers = append(closers, func() {
			if err := pg.Close(); err != nil {
				log.Printf("CLI: error closing postgres: %v", err)
			}
		})
		if err := pg.EnsureSchema(ctx); err != nil {
			closeAll()
			return nil, func() {}, &pipeline.Error{Kind: pipeline.KindIO, Stage: pipeline.StageArchive, Err: err}
		}
		savers = append(savers, pg)
		log.Printf("CLI: archiving flashcards to postgres")
	}

	return savers, closeAll, nil
}
