package app

import (
	"fmt"
	"os"
	"time"

	"fstx-go/internal/backup"
	"fstx-go/internal/config"
	"fstx-go/internal/encryption"
	"fstx-go/internal/fs"
	"fstx-go/internal/fstx"
	"fstx-go/internal/journal"
)

// PassphraseFunc supplies the passphrase that unlocks the private key when
// encrypted backups are configured. It is only invoked when needed.
type PassphraseFunc func() (string, error)

// App is the application layer between the CLI and the transaction engine.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and manages the journal lifecycle on Close.
type App struct {
	cfg     *config.Config
	fsys    fstx.Filesystem
	backups fstx.BackupStore
	journal fstx.Journal
	logger  fstx.Logger
	clock   fstx.Clock
	idgen   fstx.IDGenerator
	logFile *os.File
}

// NewApp creates a fully wired App from the given config. operation
// identifies the CLI command being run (e.g. "Apply", "History") and tags
// the log records of this run. passphrase is consulted only when the
// config enables encrypted backups; the key is unlocked up front so a
// rollback never blocks on user input. The caller must call Close when
// done.
func NewApp(cfg *config.Config, operation string, passphrase PassphraseFunc) (*App, error) {
	fsys := fs.NewOSFilesystem()
	idgen := fstx.UUIDGenerator{}

	var enc fstx.Encryptor
	var dec fstx.DecryptionContext
	if cfg.Backup.Encrypt {
		var err error
		enc, err = encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return nil, fmt.Errorf("creating encryptor: %w", err)
		}
		if !enc.IsConfigured() {
			return nil, fmt.Errorf("encrypted backups enabled but keys are missing: run `fstx keys init`")
		}
		if passphrase == nil {
			return nil, fmt.Errorf("encrypted backups enabled but no passphrase source provided")
		}
		pass, err := passphrase()
		if err != nil {
			return nil, fmt.Errorf("reading passphrase: %w", err)
		}
		dec, err = enc.Unlock(pass)
		if err != nil {
			return nil, fmt.Errorf("unlocking key: %w", err)
		}
	}

	backups, err := backup.NewStoreFromConfig(cfg.Backup, fsys, idgen, enc, dec)
	if err != nil {
		return nil, fmt.Errorf("creating backup store: %w", err)
	}

	jnl, err := journal.NewJournalFromConfig(cfg.Journal)
	if err != nil {
		return nil, fmt.Errorf("creating journal: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, runID+"/"+operation)
	if err != nil {
		jnl.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &App{
		cfg:     cfg,
		fsys:    fsys,
		backups: backups,
		journal: jnl,
		logger:  &slogAdapter{l: logger},
		clock:   fstx.RealClock{},
		idgen:   idgen,
		logFile: logFile,
	}, nil
}

// Close releases the journal and the log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.journal.Close(); err != nil {
		firstErr = fmt.Errorf("closing journal: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}

// ApplyResult reports the outcome of applying a plan.
type ApplyResult struct {
	TransactionID string
	Status        string
	Steps         int
	Executed      int
	FailedStep    int // index of the failing step, -1 when none
	ExecuteErr    error
	RollbackErr   error
}

// Apply reads a plan file, builds a transaction from it, executes it, and
// records the outcome in the journal. On execution failure the transaction
// is rolled back unless noRollback is set; the caller is told which step
// failed either way. The returned error is non-nil only for failures
// before the transaction starts (bad plan, unreadable file); execution
// and rollback failures are reported in the result.
func (a *App) Apply(planPath string, noRollback bool) (*ApplyResult, error) {
	plan, err := config.ReadPlanFromFile(planPath)
	if err != nil {
		return nil, err
	}

	tx := fstx.NewTransaction(a.fsys, a.backups, a.cfg.Backup.TempDir, a.logger)
	for _, step := range plan.Steps {
		a.appendStep(tx, step)
	}
	defer tx.Close()

	result := &ApplyResult{
		TransactionID: a.idgen.New(),
		Steps:         tx.Len(),
		FailedStep:    -1,
	}

	startedAt := a.clock.Now()
	a.logger.Info("applying plan", "plan", planPath, "steps", tx.Len())

	result.ExecuteErr = tx.Execute()
	result.Executed = tx.Executed()

	switch {
	case result.ExecuteErr == nil:
		result.Status = fstx.StatusCommitted
	case noRollback:
		result.Status = fstx.StatusFailed
		result.FailedStep = tx.Executed() - 1
	default:
		result.FailedStep = tx.Executed() - 1
		result.RollbackErr = tx.Rollback()
		if result.RollbackErr == nil {
			result.Status = fstx.StatusRolledBack
		} else {
			result.Status = fstx.StatusRollbackFailed
		}
	}

	a.record(tx, plan, planPath, result, startedAt)
	return result, nil
}

// appendStep translates one plan step into a transaction operation.
// Plans are validated on read, so an unknown action here is a programming
// error.
func (a *App) appendStep(tx *fstx.Transaction, step config.Step) {
	switch step.Action {
	case fstx.KindCreateFile:
		tx.CreateFile(step.Path)
	case fstx.KindCreateDirectory:
		tx.CreateDirectory(step.Path)
	case fstx.KindWriteFile:
		tx.WriteFile(step.Path, []byte(step.Content))
	case fstx.KindAppendFile:
		tx.AppendFile(step.Path, []byte(step.Content))
	case fstx.KindCopyFile:
		tx.CopyFile(step.Path, step.Dest)
	case fstx.KindCopyDirectory:
		tx.CopyDirectory(step.Path, step.Dest)
	case fstx.KindMoveFile:
		tx.MoveFile(step.Path, step.Dest)
	case fstx.KindMoveDirectory:
		tx.MoveDirectory(step.Path, step.Dest)
	case fstx.KindDeleteFile:
		tx.DeleteFile(step.Path)
	case fstx.KindDeleteDirectory:
		tx.DeleteDirectory(step.Path)
	default:
		panic(fmt.Sprintf("unvalidated plan action: %q", step.Action))
	}
}

// record writes the transaction outcome to the journal. Journal failures
// are logged, not propagated: the filesystem outcome is already decided
// and a missing history row is the lesser harm.
func (a *App) record(tx *fstx.Transaction, plan *config.Plan, planPath string, result *ApplyResult, startedAt time.Time) {
	errText := ""
	if result.ExecuteErr != nil {
		errText = result.ExecuteErr.Error()
	}
	if result.RollbackErr != nil {
		errText += "; rollback: " + result.RollbackErr.Error()
	}

	desc := plan.Description
	if desc == "" {
		desc = planPath
	}

	rec := &fstx.TransactionRecord{
		ID:         result.TransactionID,
		Plan:       desc,
		Status:     result.Status,
		Steps:      result.Steps,
		Executed:   result.Executed,
		FailedStep: result.FailedStep,
		Error:      errText,
		StartedAt:  startedAt,
		FinishedAt: a.clock.Now(),
	}

	steps := make([]fstx.StepRecord, 0, tx.Len())
	for i, op := range tx.Operations() {
		step := fstx.StepRecord{
			TransactionID: rec.ID,
			Seq:           i,
			Kind:          op.Kind(),
			Source:        op.Path(),
		}
		if d, ok := op.(interface{ Dest() string }); ok {
			step.Dest = d.Dest()
		}
		steps = append(steps, step)
	}

	if err := a.journal.RecordTransaction(rec, steps); err != nil {
		a.logger.Warn("recording transaction failed", "id", rec.ID, "error", err)
	}
}

// History returns the most recent recorded transactions, newest first.
func (a *App) History(limit int) ([]*fstx.TransactionRecord, error) {
	return a.journal.ListTransactions(limit)
}

// Steps returns the recorded steps of a transaction.
func (a *App) Steps(transactionID string) ([]*fstx.StepRecord, error) {
	return a.journal.ListSteps(transactionID)
}

// InitKeys performs one-time key generation for encrypted backups.
func InitKeys(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc.IsConfigured() {
		return fmt.Errorf("keys already exist at %s", cfg.Encryption.PublicKeyPath)
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("generating keys: %w", err)
	}
	return nil
}
