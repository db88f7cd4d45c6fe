package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"transcript-export/pkg/bom"
)

var (
	ErrNoCredential = errors.New("config file holds no Authorization entry")
)

// Credential is the API authorization value sent verbatim as the Authorization header.
type Credential string

// credentialEntry mirrors one element of the config.json array.
type credentialEntry struct {
	Authorization string `json:"Authorization"`
}

// LoadCredential reads the config file (a JSON array whose first element holds Authorization).
// A leading byte order mark is tolerated.
func LoadCredential(path string) (Credential, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read config %s: %w", path, err)
	}

	var entries []credentialEntry
	if err := json.Unmarshal(bom.Strip(data), &entries); err != nil {
		return "", fmt.Errorf("parse config %s: %w", path, err)
	}

	if len(entries) == 0 || strings.TrimSpace(entries[0].Authorization) == "" {
		return "", fmt.Errorf("%s: %w", path, ErrNoCredential)
	}

	return Credential(entries[0].Authorization), nil
}
