package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"rewards-transparency-indexer/internal/domain/entity"
	"rewards-transparency-indexer/internal/domain/repository"
	"rewards-transparency-indexer/internal/infrastructure/config"
	"rewards-transparency-indexer/internal/infrastructure/logger"

	"go.uber.org/zap"
)

// FileTransactionStore caches raw transactions as a JSON array on disk, one
// file per home address. Files are read once per fetch and overwritten in
// full; there is no file locking, so concurrent fetches for the same address
// must be serialized by the caller.
type FileTransactionStore struct {
	dir    string
	logger *logger.Logger
}

// NewFileTransactionStore creates a new file-backed transaction store
func NewFileTransactionStore(cfg *config.ReportConfig, log *logger.Logger) repository.TransactionStore {
	return &FileTransactionStore{
		dir:    cfg.CacheDir,
		logger: log.WithComponent("transaction-store"),
	}
}

// Load returns the cached transactions for the address. A missing cache file
// yields an empty slice.
func (s *FileTransactionStore) Load(_ context.Context, address string) ([]entity.RawTransaction, error) {
	path := s.cachePath(address)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []entity.RawTransaction{}, nil
		}
		return nil, fmt.Errorf("failed to read transaction cache %s: %w", path, err)
	}

	var txns []entity.RawTransaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode transaction cache %s: %w", path, err)
	}

	s.logger.Debug("Loaded transaction cache",
		zap.String("path", path),
		zap.Int("count", len(txns)))

	return txns, nil
}

// Save overwrites the cache file for the address with the full list.
func (s *FileTransactionStore) Save(_ context.Context, address string, txns []entity.RawTransaction) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", s.dir, err)
	}

	data, err := json.Marshal(txns)
	if err != nil {
		return fmt.Errorf("failed to encode transaction cache: %w", err)
	}

	path := s.cachePath(address)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write transaction cache %s: %w", path, err)
	}

	s.logger.Debug("Saved transaction cache",
		zap.String("path", path),
		zap.Int("count", len(txns)))

	return nil
}

// cachePath derives the cache filename from the address's first and last
// five characters.
func (s *FileTransactionStore) cachePath(address string) string {
	name := address
	if len(address) > 10 {
		name = fmt.Sprintf("%s-%s", address[:5], address[len(address)-5:])
	}
	return filepath.Join(s.dir, name+".json")
}
