package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	DefaultTranscriptsURL = "https://www.happyscribe.com/api/v1/transcriptions"
	DefaultExportsURL     = "https://www.happyscribe.com/api/v1/exports"

	DefaultConfigFile     = "config.json"
	DefaultCheckpointFile = "transcript_ids.json"
	DefaultOutputDir      = "output"

	ArchiveFileName = "output.zip"
	JSONDirName     = "json"
	CSVFileName     = "output.csv"
)

// Settings holds everything a run needs besides the credential.
type Settings struct {
	ConfigFile     string
	TranscriptsURL string
	ExportsURL     string
	CheckpointFile string
	OutputDir      string

	// Optional flashcard archive sinks. Empty values disable them.
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
	PostgresDSN     string

	DisableClipboard bool
}

// DefaultSettings returns the settings used when nothing is overridden.
func DefaultSettings() Settings {
	return Settings{
		ConfigFile:      DefaultConfigFile,
		TranscriptsURL:  DefaultTranscriptsURL,
		ExportsURL:      DefaultExportsURL,
		CheckpointFile:  DefaultCheckpointFile,
		OutputDir:       DefaultOutputDir,
		MongoDatabase:   "transcripts",
		MongoCollection: "flashcards",
	}
}

// LoadSettings loads a .env file from the working directory, if there is one, and applies
// environment overrides on top of DefaultSettings.
func LoadSettings() Settings {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Config: error loading .env file: %v", err)
	}
	return FromEnv(DefaultSettings())
}

// FromEnv overrides fields of base with any non-empty environment variables.
func FromEnv(base Settings) Settings {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	override(&base.ConfigFile, "TRANSCRIPT_EXPORT_CONFIG")
	override(&base.TranscriptsURL, "TRANSCRIPTS_URL")
	override(&base.ExportsURL, "EXPORTS_URL")
	override(&base.CheckpointFile, "CHECKPOINT_FILE")
	override(&base.OutputDir, "OUTPUT_DIR")
	override(&base.MongoURI, "MONGO_URI")
	override(&base.MongoDatabase, "MONGO_DB")
	override(&base.MongoCollection, "MONGO_COLLECTION")
	override(&base.PostgresDSN, "POSTGRES_DSN")
	return base
}

// ArchivePath is where the downloaded export archive is written.
func (s Settings) ArchivePath() string {
	return filepath.Join(s.OutputDir, ArchiveFileName)
}

// JSONDir is where the archive is extracted.
func (s Settings) JSONDir() string {
	return filepath.Join(s.OutputDir, JSONDirName)
}
