package journal

import (
	"path/filepath"
	"testing"
	"time"

	"fstx-go/internal/fstx"
)

// newTestJournal creates a migrated in-memory journal.
func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()

	j, err := NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	t.Cleanup(func() {
		j.Close()
	})
	return j
}

func makeRecord(id, status string, startedAt time.Time) *fstx.TransactionRecord {
	return &fstx.TransactionRecord{
		ID:         id,
		Plan:       "plan.toml",
		Status:     status,
		Steps:      2,
		Executed:   2,
		FailedStep: -1,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(time.Second),
	}
}

func TestSQLiteJournal_RecordTransaction(t *testing.T) {
	t.Run("records transaction with steps", func(t *testing.T) {
		j := newTestJournal(t)

		rec := makeRecord("tx-1", fstx.StatusCommitted, time.Now())
		steps := []fstx.StepRecord{
			{TransactionID: "tx-1", Seq: 0, Kind: "create-file", Source: "/work/a"},
			{TransactionID: "tx-1", Seq: 1, Kind: "copy-file", Source: "/work/a", Dest: "/work/b"},
		}

		if err := j.RecordTransaction(rec, steps); err != nil {
			t.Fatalf("RecordTransaction() error = %v", err)
		}

		records, err := j.ListTransactions(10)
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("got %d records, want 1", len(records))
		}
		got := records[0]
		if got.ID != "tx-1" || got.Status != fstx.StatusCommitted {
			t.Errorf("record = %+v", got)
		}
		if got.FailedStep != -1 {
			t.Errorf("FailedStep = %d, want -1", got.FailedStep)
		}
	})

	t.Run("fails on duplicate transaction id", func(t *testing.T) {
		j := newTestJournal(t)

		rec := makeRecord("tx-1", fstx.StatusCommitted, time.Now())
		if err := j.RecordTransaction(rec, nil); err != nil {
			t.Fatalf("first RecordTransaction() error = %v", err)
		}
		if err := j.RecordTransaction(rec, nil); err == nil {
			t.Error("second RecordTransaction() expected error for duplicate id")
		}
	})

	t.Run("failed transaction keeps error and failed step", func(t *testing.T) {
		j := newTestJournal(t)

		rec := makeRecord("tx-1", fstx.StatusRolledBack, time.Now())
		rec.Executed = 1
		rec.FailedStep = 0
		rec.Error = "step 0 (create-file /work/a): file exists"

		if err := j.RecordTransaction(rec, nil); err != nil {
			t.Fatalf("RecordTransaction() error = %v", err)
		}

		records, _ := j.ListTransactions(1)
		if records[0].FailedStep != 0 {
			t.Errorf("FailedStep = %d, want 0", records[0].FailedStep)
		}
		if records[0].Error == "" {
			t.Error("Error was not persisted")
		}
	})
}

func TestSQLiteJournal_ListTransactions(t *testing.T) {
	j := newTestJournal(t)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"tx-1", "tx-2", "tx-3"} {
		rec := makeRecord(id, fstx.StatusCommitted, base.Add(time.Duration(i)*time.Minute))
		if err := j.RecordTransaction(rec, nil); err != nil {
			t.Fatalf("RecordTransaction(%s) error = %v", id, err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		records, err := j.ListTransactions(10)
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("got %d records, want 3", len(records))
		}
		if records[0].ID != "tx-3" || records[2].ID != "tx-1" {
			t.Errorf("order = [%s %s %s], want newest first", records[0].ID, records[1].ID, records[2].ID)
		}
	})

	t.Run("respects limit", func(t *testing.T) {
		records, err := j.ListTransactions(2)
		if err != nil {
			t.Fatalf("ListTransactions() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].ID != "tx-3" {
			t.Errorf("first record = %s, want tx-3", records[0].ID)
		}
	})
}

func TestSQLiteJournal_ListSteps(t *testing.T) {
	j := newTestJournal(t)

	rec := makeRecord("tx-1", fstx.StatusCommitted, time.Now())
	steps := []fstx.StepRecord{
		{TransactionID: "tx-1", Seq: 0, Kind: "delete-directory", Source: "/old"},
		{TransactionID: "tx-1", Seq: 1, Kind: "move-directory", Source: "/staging", Dest: "/old"},
	}
	if err := j.RecordTransaction(rec, steps); err != nil {
		t.Fatalf("RecordTransaction() error = %v", err)
	}

	t.Run("returns steps in order", func(t *testing.T) {
		got, err := j.ListSteps("tx-1")
		if err != nil {
			t.Fatalf("ListSteps() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d steps, want 2", len(got))
		}
		if got[0].Kind != "delete-directory" || got[1].Kind != "move-directory" {
			t.Errorf("kinds = [%s %s]", got[0].Kind, got[1].Kind)
		}
		if got[1].Dest != "/old" {
			t.Errorf("Dest = %q, want /old", got[1].Dest)
		}
	})

	t.Run("unknown transaction returns empty", func(t *testing.T) {
		got, err := j.ListSteps("nope")
		if err != nil {
			t.Fatalf("ListSteps() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("got %d steps, want 0", len(got))
		}
	})
}

func TestSQLiteJournal_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("NewSQLiteJournal() error = %v", err)
	}
	rec := makeRecord("tx-1", fstx.StatusCommitted, time.Now())
	if err := j.RecordTransaction(rec, nil); err != nil {
		t.Fatalf("RecordTransaction() error = %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewSQLiteJournal(path)
	if err != nil {
		t.Fatalf("reopening journal: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.ListTransactions(10)
	if err != nil {
		t.Fatalf("ListTransactions() error = %v", err)
	}
	if len(records) != 1 || records[0].ID != "tx-1" {
		t.Errorf("records = %v, want tx-1", records)
	}
}
