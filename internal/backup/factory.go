package backup

import (
	"fmt"

	"fstx-go/internal/config"
	"fstx-go/internal/fstx"
)

// NewStoreFromConfig creates a BackupStore based on the backup config.
// When encryption is enabled, the caller must supply an encryptor and an
// already-unlocked decryption context so rollback never blocks on user
// input.
func NewStoreFromConfig(cfg config.BackupConfig, fsys fstx.Filesystem, idgen fstx.IDGenerator, enc fstx.Encryptor, dec fstx.DecryptionContext) (fstx.BackupStore, error) {
	if !cfg.Encrypt {
		return NewStore(fsys, idgen), nil
	}
	if enc == nil {
		return nil, fmt.Errorf("encrypted backups require an encryptor")
	}
	if dec == nil {
		return nil, fmt.Errorf("encrypted backups require an unlocked key")
	}
	return NewEncryptedStore(fsys, idgen, enc, dec), nil
}
