// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package journal

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/toeirei/dkgtestbed/core"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(TypeSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	first, err := j.Record(ctx, Entry{Op: core.OpPublish, UAL: "did:dkg:otp:20430/0xhub/1", StartedAt: base, Duration: 1500 * time.Millisecond})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("expected generated id")
	}
	if _, err := j.Record(ctx, Entry{Op: core.OpRetrieve, Kind: string(core.KindRemoteOperation), Message: "failed to get asset: timeout", StartedAt: base.Add(time.Minute)}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	all, err := j.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].Op != core.OpRetrieve || all[0].OK() {
		t.Fatalf("expected newest failed retrieve first, got %+v", all[0])
	}
	if all[1].ID != first.ID || all[1].Duration != 1500*time.Millisecond || !all[1].StartedAt.Equal(base) {
		t.Fatalf("round-tripped entry differs: %+v", all[1])
	}

	one, err := j.List(ctx, 1)
	if err != nil || len(one) != 1 {
		t.Fatalf("List(1) = %d entries, %v", len(one), err)
	}

	if _, err := j.Record(ctx, Entry{ID: first.ID, Op: core.OpPublish}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	for i := 0; i < 3; i++ {
		if _, err := j.Record(ctx, Entry{Op: core.OpPublish, UAL: "did:dkg:otp:20430/0xhub/" + string(rune('1'+i))}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := j.Export(ctx, &buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte{0x28, 0xb5, 0x2f, 0xfd}) {
		t.Fatalf("export is not a zstd frame")
	}
	doc, err := ReadExport(&buf)
	if err != nil {
		t.Fatalf("ReadExport: %v", err)
	}
	if doc.SchemaVersion != 1 || len(doc.Entries) != 3 {
		t.Fatalf("unexpected export %+v", doc)
	}
}

func TestObserverRecordsOutcomes(t *testing.T) {
	ctx := context.Background()
	j := openTest(t)
	obs := j.Observer()

	started := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	obs.Observe(core.Outcome{Op: core.OpInitialize, Wallet: "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", Started: started})
	obs.Observe(core.Outcome{Op: core.OpPublish, Kind: core.KindBusy, Message: "another operation is in progress", Started: started.Add(time.Second)})

	got, err := j.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].Kind != string(core.KindBusy) || got[1].Wallet == "" {
		t.Fatalf("unexpected entries %+v", got)
	}
}

func TestOpenRejectsUnknownType(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Fatalf("expected unsupported type error, got %v", err)
	}
	if _, err := Open(TypePostgres, ""); err == nil {
		t.Fatalf("expected error for postgres without dsn")
	}
}

func TestOpenReportsDriverFailure(t *testing.T) {
	prev := sqlOpenFunc
	sqlOpenFunc = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }
	defer func() { sqlOpenFunc = prev }()

	if _, err := Open(TypeSQLite, ":memory:"); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected open failure, got %v", err)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	j := openTest(t)
	if err := RunMigrations(j.db.DB, TypeSQLite); err != nil {
		t.Fatalf("second RunMigrations: %v", err)
	}
	var n int
	if err := j.db.DB.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 recorded migration, got %d", n)
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
	if !errors.Is(MapDBError(errors.New("UNIQUE constraint failed: journal.id")), ErrDuplicate) {
		t.Fatalf("sqlite unique violation not mapped")
	}
	other := errors.New("disk full")
	if MapDBError(other) != other {
		t.Fatalf("unrelated errors must pass through")
	}
}
