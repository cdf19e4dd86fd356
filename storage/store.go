package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// EvidenceLogName is the append-only evidence log kept alongside run
// documents; it is never treated as a run record.
const EvidenceLogName = "evidence_log.jsonl"

// Store writes one JSON document per run under a single directory.
type Store struct {
	dir string
	log *zap.Logger
}

// NewStore prepares the runs directory.
func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create runs dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the runs directory.
func (s *Store) Dir() string { return s.dir }

// RunPath returns the stable location for a run document.
func (s *Store) RunPath(runID string) string {
	return filepath.Join(s.dir, runID+".json")
}

// EvidenceLogPath returns the sibling evidence log location.
func (s *Store) EvidenceLogPath() string {
	return filepath.Join(s.dir, EvidenceLogName)
}

// SaveRun writes (or rewrites) the run document. Local persistence is the
// durability requirement: a failure here fails the run.
func (s *Store) SaveRun(run *RunRecord) (string, error) {
	path := s.RunPath(run.RunID)
	run.LocalPath = path
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode run %s: %w", run.RunID, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write run %s: %w", run.RunID, err)
	}
	return path, nil
}

// LoadRun reads one run document by id.
func (s *Store) LoadRun(runID string) (*RunRecord, error) {
	data, err := os.ReadFile(s.RunPath(runID))
	if err != nil {
		return nil, err
	}
	var run RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", runID, err)
	}
	return &run, nil
}

// ListRuns loads every persisted run document, skipping the evidence log
// and anything unreadable. Directory entries come back sorted by
// filename, so the read order is lexical by run id.
func (s *Store) ListRuns() ([]*RunRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var runs []*RunRecord
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == EvidenceLogName || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			s.log.Warn("skipping unreadable run file", zap.String("file", name), zap.Error(err))
			continue
		}
		var run RunRecord
		if err := json.Unmarshal(data, &run); err != nil {
			s.log.Warn("skipping malformed run file", zap.String("file", name), zap.Error(err))
			continue
		}
		runs = append(runs, &run)
	}
	return runs, nil
}
