// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/uptrace/bun"

	"github.com/toeirei/dkgtestbed/core"
	"github.com/toeirei/dkgtestbed/internal/logging"
)

// Entry is one journaled operation.
type Entry struct {
	ID        string        `json:"id"`
	Op        string        `json:"op"`
	UAL       string        `json:"ual,omitempty"`
	Wallet    string        `json:"wallet,omitempty"`
	Kind      string        `json:"kind,omitempty"`
	Message   string        `json:"message,omitempty"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
}

// OK reports whether the journaled operation succeeded.
func (e Entry) OK() bool { return e.Kind == "" }

// entryModel maps the journal table.
type entryModel struct {
	bun.BaseModel `bun:"table:journal"`
	ID            string    `bun:"id,pk"`
	Op            string    `bun:"op,notnull"`
	UAL           string    `bun:"ual,notnull"`
	Wallet        string    `bun:"wallet,notnull"`
	Kind          string    `bun:"kind,notnull"`
	Message       string    `bun:"message,notnull"`
	StartedAt     time.Time `bun:"started_at,notnull"`
	DurationMs    int64     `bun:"duration_ms,notnull"`
}

func (m entryModel) entry() Entry {
	return Entry{
		ID:        m.ID,
		Op:        m.Op,
		UAL:       m.UAL,
		Wallet:    m.Wallet,
		Kind:      m.Kind,
		Message:   m.Message,
		StartedAt: m.StartedAt.UTC(),
		Duration:  time.Duration(m.DurationMs) * time.Millisecond,
	}
}

// Journal is a bun-backed operation log.
type Journal struct {
	db     *bun.DB
	dbType string
}

// Open connects to the journal database and applies migrations. An empty
// dsn selects DefaultDSN for sqlite.
func Open(dbType, dsn string) (*Journal, error) {
	if dbType == "" {
		dbType = TypeSQLite
	}
	if dsn == "" {
		if dbType != TypeSQLite {
			return nil, fmt.Errorf("a dsn is required for %s journals", dbType)
		}
		dsn = DefaultDSN
	}
	db, err := openDB(dbType, dsn)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db, dbType: dbType}, nil
}

// Type returns the backend name.
func (j *Journal) Type() string { return j.dbType }

func (j *Journal) Close() error { return j.db.Close() }

// Record stores e. ID and StartedAt are filled in when empty.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.StartedAt.IsZero() {
		e.StartedAt = time.Now()
	}
	e.StartedAt = e.StartedAt.UTC()
	m := &entryModel{
		ID:         e.ID,
		Op:         e.Op,
		UAL:        e.UAL,
		Wallet:     e.Wallet,
		Kind:       e.Kind,
		Message:    e.Message,
		StartedAt:  e.StartedAt,
		DurationMs: e.Duration.Milliseconds(),
	}
	if _, err := j.db.NewInsert().Model(m).Exec(ctx); err != nil {
		return e, MapDBError(err)
	}
	return e, nil
}

// List returns the most recent entries first. limit <= 0 returns everything.
func (j *Journal) List(ctx context.Context, limit int) ([]Entry, error) {
	var ms []entryModel
	q := j.db.NewSelect().Model(&ms).OrderExpr("started_at DESC").OrderExpr("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.entry())
	}
	return out, nil
}

// Export is the document written by Journal.Export.
type Export struct {
	SchemaVersion int       `json:"schemaVersion"`
	ExportedAt    time.Time `json:"exportedAt"`
	Entries       []Entry   `json:"entries"`
}

// Export writes every entry as zstd-compressed JSON to w.
func (j *Journal) Export(ctx context.Context, w io.Writer) error {
	entries, err := j.List(ctx, 0)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Export{SchemaVersion: 1, ExportedAt: time.Now().UTC(), Entries: entries}); err != nil {
		_ = zw.Close()
		return fmt.Errorf("encode export: %w", err)
	}
	return zw.Close()
}

// ReadExport decodes a document produced by Export.
func ReadExport(r io.Reader) (*Export, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("create zstd reader: %w", err)
	}
	defer zr.Close()
	var out Export
	if err := json.NewDecoder(zr).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return &out, nil
}

// Observer returns a core.Observer that records every outcome. Failures to
// write are logged and otherwise ignored so the session keeps working.
func (j *Journal) Observer() core.Observer {
	return core.ObserverFunc(func(o core.Outcome) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := j.Record(ctx, FromOutcome(o)); err != nil {
			logging.Warnf("journal: could not record %s: %v", o.Op, err)
		}
	})
}

// FromOutcome converts a coordinator outcome into an Entry.
func FromOutcome(o core.Outcome) Entry {
	return Entry{
		Op:        o.Op,
		UAL:       o.UAL,
		Wallet:    o.Wallet,
		Kind:      string(o.Kind),
		Message:   o.Message,
		StartedAt: o.Started,
		Duration:  o.Duration,
	}
}
