package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/talentscout/screener/internal/interview"
)

// FileStore writes one candidate_<key>.json file per session under a data
// directory, creating the directory on first use.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "data"
	}
	return &FileStore{dir: dir, now: time.Now}
}

// Persist serializes the session and returns its storage key.
func (f *FileStore) Persist(_ context.Context, s *interview.Session) (string, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory %q: %w", f.dir, err)
	}

	data, err := json.MarshalIndent(NewRecord(s), "", "    ")
	if err != nil {
		return "", fmt.Errorf("marshaling transcript: %w", err)
	}

	key := storageKey(f.now())
	path := filepath.Join(f.dir, "candidate_"+key+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing transcript %q: %w", path, err)
	}

	return key, nil
}
