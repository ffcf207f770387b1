package backup

import (
	"bytes"
	"fmt"
	"path/filepath"

	"fstx-go/internal/fstx"
)

// EncryptedStore is a fstx.BackupStore whose artifacts are encrypted at
// rest. File backups are single encrypted files; directory backups keep
// the subtree's relative structure with each file encrypted individually.
//
// Because the artifacts are ciphertext, a directory restore cannot simply
// rename the backup into place: RestoreDirectory decrypts the tree back to
// the original path and then removes the backup, preserving the contract
// that the backup is consumed.
//
// The store is constructed with an already-unlocked DecryptionContext so
// rollback never has to stop and ask for a passphrase.
type EncryptedStore struct {
	fsys  fstx.Filesystem
	idgen fstx.IDGenerator
	enc   fstx.Encryptor
	dec   fstx.DecryptionContext
}

var _ fstx.BackupStore = (*EncryptedStore)(nil)

// NewEncryptedStore creates an encrypting backup store.
func NewEncryptedStore(fsys fstx.Filesystem, idgen fstx.IDGenerator, enc fstx.Encryptor, dec fstx.DecryptionContext) *EncryptedStore {
	return &EncryptedStore{fsys: fsys, idgen: idgen, enc: enc, dec: dec}
}

// BackupFile writes an encrypted copy of the file into tempDir under a
// unique name.
func (s *EncryptedStore) BackupFile(path, tempDir string) (string, error) {
	if err := s.fsys.MkdirAll(tempDir); err != nil {
		return "", fmt.Errorf("creating temp dir %s: %w", tempDir, err)
	}

	backupPath := filepath.Join(tempDir, s.idgen.New())
	if err := s.encryptFile(path, backupPath); err != nil {
		return "", err
	}
	return backupPath, nil
}

// BackupDirectory copies the subtree into tempDir under a unique name,
// encrypting each file.
func (s *EncryptedStore) BackupDirectory(path, tempDir string) (string, error) {
	if err := s.fsys.MkdirAll(tempDir); err != nil {
		return "", fmt.Errorf("creating temp dir %s: %w", tempDir, err)
	}

	backupPath := filepath.Join(tempDir, s.idgen.New())
	if err := fstx.CopyTreeWith(s.fsys, path, backupPath, s.encryptFile); err != nil {
		return "", fmt.Errorf("backing up directory %s: %w", path, err)
	}
	return backupPath, nil
}

// RestoreFile decrypts the backup over originalPath.
func (s *EncryptedStore) RestoreFile(backupPath, originalPath string) error {
	return s.decryptFile(backupPath, originalPath)
}

// RestoreDirectory decrypts the backed-up subtree back to originalPath and
// removes the backup, consuming it.
func (s *EncryptedStore) RestoreDirectory(backupPath, originalPath string) error {
	if err := fstx.CopyTreeWith(s.fsys, backupPath, originalPath, s.decryptFile); err != nil {
		return fmt.Errorf("restoring directory %s: %w", originalPath, err)
	}
	return s.fsys.RemoveAll(backupPath)
}

// Remove discards a backup artifact, file or directory.
func (s *EncryptedStore) Remove(backupPath string) error {
	return s.fsys.RemoveAll(backupPath)
}

// encryptFile reads from, encrypts with the public key, and writes the
// ciphertext to to.
func (s *EncryptedStore) encryptFile(from, to string) error {
	data, err := s.fsys.ReadFile(from)
	if err != nil {
		return fmt.Errorf("reading %s: %w", from, err)
	}

	var buf bytes.Buffer
	if err := s.enc.Encrypt(bytes.NewReader(data), &buf); err != nil {
		return fmt.Errorf("encrypting %s: %w", from, err)
	}

	if err := s.fsys.WriteFile(to, buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", to, err)
	}
	return nil
}

// decryptFile reads ciphertext from, decrypts with the unlocked key, and
// writes the plaintext to to.
func (s *EncryptedStore) decryptFile(from, to string) error {
	data, err := s.fsys.ReadFile(from)
	if err != nil {
		return fmt.Errorf("reading %s: %w", from, err)
	}

	var buf bytes.Buffer
	if err := s.dec.Decrypt(bytes.NewReader(data), &buf); err != nil {
		return fmt.Errorf("decrypting %s: %w", from, err)
	}

	if err := s.fsys.WriteFile(to, buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s: %w", to, err)
	}
	return nil
}
