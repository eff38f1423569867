package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"AirworthinessDigest/internal/ports"
)

// DefaultHistoryLimit caps the ledger when no explicit limit is configured.
const DefaultHistoryLimit = 1000

// HistoryFile keeps delivered article ids in a single JSON array on disk.
// Every save rewrites the whole file.
type HistoryFile struct {
	path   string
	limit  int
	logger *slog.Logger
}

var _ ports.HistoryStore = (*HistoryFile)(nil)

// NewHistoryFile wires a ledger stored at path; limit <= 0 means DefaultHistoryLimit.
func NewHistoryFile(path string, limit int, log *slog.Logger) *HistoryFile {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &HistoryFile{path: path, limit: limit, logger: log}
}

// Load returns previously delivered ids, or an empty slice if the file is absent or unusable.
func (h *HistoryFile) Load(ctx context.Context) []string {
	ids, err := h.read()
	if errors.Is(err, fs.ErrNotExist) {
		h.logger.DebugContext(ctx, "history file not found, starting empty", "path", h.path)
		return []string{}
	}
	if err != nil {
		h.logger.WarnContext(ctx, "history unreadable, starting empty", "path", h.path, "error", err)
		return []string{}
	}

	h.logger.DebugContext(ctx, "history loaded", "path", h.path, "ids", len(ids))
	return ids
}

// Save persists the most recent ids; failures are logged and swallowed.
func (h *HistoryFile) Save(ctx context.Context, ids []string) {
	trimmed := Trim(ids, h.limit)
	if err := h.write(trimmed); err != nil {
		h.logger.ErrorContext(ctx, "failed to save history", "path", h.path, "error", err)
		return
	}
	h.logger.DebugContext(ctx, "history saved", "path", h.path, "ids", len(trimmed), "dropped", len(ids)-len(trimmed))
}

// Trim keeps the last limit ids in their original order.
func Trim(ids []string, limit int) []string {
	if limit <= 0 || len(ids) <= limit {
		out := make([]string, len(ids))
		copy(out, ids)
		return out
	}
	out := make([]string, limit)
	copy(out, ids[len(ids)-limit:])
	return out
}

func (h *HistoryFile) read() ([]string, error) {
	raw, err := os.ReadFile(h.path)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// write replaces the file via a sibling temp file and rename.
func (h *HistoryFile) write(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	payload, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(h.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(h.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, h.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}
