package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"sync"

	"github.com/jcarcaboso/gas-alerts/internal/domain"
	"go.uber.org/zap"
)

type ReadState int

const (
	ReadLoaded ReadState = iota
	ReadMissing
	ReadEmpty
	ReadUnreadable
	ReadCorrupt
)

func (s ReadState) String() string {
	switch s {
	case ReadLoaded:
		return "loaded"
	case ReadMissing:
		return "missing"
	case ReadEmpty:
		return "empty"
	case ReadUnreadable:
		return "unreadable"
	case ReadCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("ReadState(%d)", int(s))
	}
}

// ReadResult always carries a non-nil list. Err is set only for the
// unreadable and corrupt states.
type ReadResult struct {
	Thresholds []*big.Int
	State      ReadState
	Err        error
}

func (r ReadResult) Usable() bool {
	return r.State != ReadUnreadable && r.State != ReadCorrupt
}

// FileStore persists thresholds as a bare JSON array of wei amounts.
type FileStore struct {
	path   string
	logger *zap.Logger

	mu sync.Mutex
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Read() ReadResult {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ReadResult{Thresholds: []*big.Int{}, State: ReadMissing}
		}
		return ReadResult{Thresholds: []*big.Int{}, State: ReadUnreadable, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ReadResult{Thresholds: []*big.Int{}, State: ReadEmpty}
	}

	var thresholds []*big.Int
	if err := json.Unmarshal(data, &thresholds); err != nil {
		return ReadResult{Thresholds: []*big.Int{}, State: ReadCorrupt, Err: err}
	}
	for i, wei := range thresholds {
		if wei == nil || wei.Sign() < 0 {
			return ReadResult{
				Thresholds: []*big.Int{},
				State:      ReadCorrupt,
				Err:        fmt.Errorf("element %d is not an unsigned integer", i),
			}
		}
	}
	if len(thresholds) == 0 {
		return ReadResult{Thresholds: []*big.Int{}, State: ReadEmpty}
	}
	return ReadResult{Thresholds: thresholds, State: ReadLoaded}
}

// Write replaces the file with the full list. The new content is written to
// a sibling temp file and renamed over the old one.
func (s *FileStore) Write(thresholds []*big.Int) error {
	if thresholds == nil {
		thresholds = []*big.Int{}
	}
	data, err := json.Marshal(thresholds)
	if err != nil {
		return fmt.Errorf("encode thresholds: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp thresholds file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write thresholds: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync thresholds: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close thresholds: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod thresholds: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace thresholds file: %w", err)
	}

	s.logger.Debug("thresholds written", zap.String("path", s.path), zap.Int("count", len(thresholds)))
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]*big.Int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.readUsable()
	if err != nil {
		return nil, err
	}
	return result.Thresholds, nil
}

func (s *FileStore) Append(ctx context.Context, wei *big.Int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.readUsable()
	if err != nil {
		return err
	}
	thresholds := append(result.Thresholds, new(big.Int).Set(wei))
	return s.Write(thresholds)
}

func (s *FileStore) Seed(ctx context.Context, wei *big.Int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.readUsable()
	if err != nil {
		return false, err
	}
	if len(result.Thresholds) > 0 {
		return false, nil
	}
	if err := s.Write([]*big.Int{new(big.Int).Set(wei)}); err != nil {
		return false, err
	}
	s.logger.Info("default threshold seeded", zap.String("path", s.path), zap.String("state", result.State.String()), zap.String("wei", wei.String()))
	return true, nil
}

func (s *FileStore) readUsable() (ReadResult, error) {
	result := s.Read()
	if result.Usable() {
		return result, nil
	}
	s.logger.Error(
		"thresholds file unusable",
		zap.String("path", s.path),
		zap.String("state", result.State.String()),
		zap.Error(result.Err),
	)
	return result, fmt.Errorf("%w: %s is %s: %v", domain.ErrThresholdsUnreadable, s.path, result.State, result.Err)
}
