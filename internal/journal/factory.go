package journal

import (
	"fmt"
	"os"
	"path/filepath"

	"fstx-go/internal/config"
	"fstx-go/internal/fstx"
)

// NewJournalFromConfig creates a Journal implementation based on the
// journal config type.
func NewJournalFromConfig(cfg config.JournalConfig) (fstx.Journal, error) {
	switch cfg.Type {
	case "sqlite", "":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite journal")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
		return NewSQLiteJournal(filepath.Join(cfg.DataDir, "journal.db"))
	case "memory":
		return NewMemoryJournal(), nil
	default:
		return nil, fmt.Errorf("unknown journal type: %s", cfg.Type)
	}
}
