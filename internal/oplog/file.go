package oplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"time"

	"catdistribution-api/internal/models"
)

type Store interface {
	Append(models.OperationLog) error
	ReplaySince(time.Time, func(models.OperationLog) bool) error
	Recent(limit int) ([]models.OperationLog, error)
}

var secrets = regexp.MustCompile(`(?i)(bearer\s+[A-Za-z0-9._-]+|api[-_]?key\s*[=:]\s*[A-Za-z0-9._-]+|token\s*[=:]\s*[A-Za-z0-9._-]+)`)

// Mask redacts bearer tokens and key=value credentials.
func Mask(s string) string { return secrets.ReplaceAllString(s, "***redacted***") }

// FileStore keeps the log as JSON lines in a single file.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE, 0o644)
	if err == nil {
		_ = f.Close()
	}
	return &FileStore{path: path}, err
}

func (s *FileStore) Append(e models.OperationLog) error {
	if e.TS.IsZero() {
		e.TS = time.Now().UTC()
	}
	e.Message = Mask(e.Message)
	if len(e.Tags) > 0 {
		tags := make(map[string]string, len(e.Tags))
		for k, v := range e.Tags {
			tags[k] = Mask(v)
		}
		e.Tags = tags
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(b, '\n'))
	return err
}

func (s *FileStore) ReplaySince(since time.Time, yield func(models.OperationLog) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e models.OperationLog
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		if e.TS.After(since) {
			if cont := yield(e); !cont {
				break
			}
		}
	}
	return sc.Err()
}

// Recent returns up to limit of the newest entries, oldest first.
func (s *FileStore) Recent(limit int) ([]models.OperationLog, error) {
	if limit <= 0 {
		limit = 100
	}
	out := make([]models.OperationLog, 0, limit)
	err := s.ReplaySince(time.Time{}, func(e models.OperationLog) bool {
		out = append(out, e)
		if len(out) > limit {
			out = out[1:]
		}
		return true
	})
	return out, err
}
