// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package node

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/ipfs/go-cid"
)

const (
	testChain     = "otp:20430"
	testHub       = "0x7ee6665a29a3a8a3551486586255C2C400b46d03"
	testPublisher = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

var defaultCreate = CreateOptions{Epochs: 5, Frequency: 1, TokenAmount: 1}

func person() map[string]any {
	return map[string]any{
		"@context": "https://schema.org",
		"@type":    "Person",
		"name":     "Ada",
	}
}

func newTestService(t *testing.T, store Store) *Service {
	t.Helper()
	s := NewService(testChain, testHub, store)
	s.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return s
}

func TestServiceCreateGet(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, NewMemoryStore())

	a, err := s.Create(ctx, testPublisher, person(), defaultCreate)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.TokenID != 1 || a.UAL == "" || a.CID == "" || a.AssertionID == "" {
		t.Fatalf("incomplete asset %+v", a.Record)
	}
	if !a.CreatedAt.Equal(s.Now()) {
		t.Fatalf("clock not used: %v", a.CreatedAt)
	}

	got, err := s.Get(ctx, a.UAL, GetOptions{State: StateLatestFinalized, Validate: true})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got.Assertion, person()) {
		t.Fatalf("assertion mismatch: %#v", got.Assertion)
	}
	if got.State != StateLatestFinalized {
		t.Fatalf("unexpected state %q", got.State)
	}

	b, err := s.Create(ctx, testPublisher, person(), defaultCreate)
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}
	if b.TokenID != 2 || b.UAL == a.UAL {
		t.Fatalf("expected a fresh token id, got %d %s", b.TokenID, b.UAL)
	}
	if b.CID != a.CID {
		t.Fatalf("identical content should share a CID")
	}
}

func TestServiceKeepsLargeIntegers(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, NewMemoryStore())

	content := map[string]any{"@type": "Product", "gtin": json.Number("9007199254740993")}
	a, err := s.Create(ctx, testPublisher, content, defaultCreate)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.Assertion["gtin"] != json.Number("9007199254740993") {
		t.Fatalf("created assertion gtin = %#v", a.Assertion["gtin"])
	}
	got, err := s.Get(ctx, a.UAL, GetOptions{Validate: true})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got.Assertion, content) {
		t.Fatalf("assertion mismatch: %#v", got.Assertion)
	}
}

func TestServiceCreateRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, NewMemoryStore())

	if _, err := s.Create(ctx, "nobody", person(), defaultCreate); !errors.Is(err, ErrPublisher) {
		t.Fatalf("expected ErrPublisher, got %v", err)
	}
	if _, err := s.Create(ctx, testPublisher, person(), CreateOptions{Epochs: 0}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions for epochs, got %v", err)
	}
	if _, err := s.Create(ctx, testPublisher, person(), CreateOptions{Epochs: 1, TokenAmount: -1}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions for token amount, got %v", err)
	}
	if _, err := s.Create(ctx, testPublisher, nil, defaultCreate); !errors.Is(err, ErrInvalidContent) {
		t.Fatalf("expected ErrInvalidContent, got %v", err)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := s.Create(cctx, testPublisher, person(), defaultCreate); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestServiceGetRejects(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, NewMemoryStore())
	a, err := s.Create(ctx, testPublisher, person(), defaultCreate)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := s.Get(ctx, a.UAL, GetOptions{State: "PENDING"}); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := s.Get(ctx, "did:dkg:base:8453/"+testHub+"/1", GetOptions{}); !errors.Is(err, ErrWrongNetwork) {
		t.Fatalf("expected ErrWrongNetwork, got %v", err)
	}
	missing := UAL{Chain: testChain, Hub: testHub, TokenID: 99}.String()
	if _, err := s.Get(ctx, missing, GetOptions{}); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got, err := s.Get(ctx, a.UAL, GetOptions{State: StateLatest}); err != nil || got.State != StateLatest {
		t.Fatalf("LATEST should resolve locally, got %v %v", got.State, err)
	}
}

type tamperStore struct {
	*MemoryStore
}

func (t tamperStore) PutRecord(rec Record) error {
	rec.AssertionID = "0xdeadbeef"
	return t.MemoryStore.PutRecord(rec)
}

func TestServiceGetValidates(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, tamperStore{NewMemoryStore()})
	a, err := s.Create(ctx, testPublisher, person(), defaultCreate)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Get(ctx, a.UAL, GetOptions{Validate: true}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := s.Get(ctx, a.UAL, GetOptions{Validate: false}); err != nil {
		t.Fatalf("unvalidated Get should succeed, got %v", err)
	}
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	s := newTestService(t, fs)
	a, err := s.Create(ctx, testPublisher, person(), defaultCreate)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	fs.Close()

	fs2, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer fs2.Close()
	s2 := newTestService(t, fs2)

	got, err := s2.Get(ctx, a.UAL, GetOptions{Validate: true})
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if !reflect.DeepEqual(got.Assertion, person()) {
		t.Fatalf("assertion mismatch after reopen: %#v", got.Assertion)
	}
	b, err := s2.Create(ctx, testPublisher, map[string]any{"name": "Grace"}, defaultCreate)
	if err != nil {
		t.Fatalf("Create after reopen: %v", err)
	}
	if b.TokenID != a.TokenID+1 {
		t.Fatalf("token ids must continue after reopen, got %d", b.TokenID)
	}
}

func TestFileStoreBlobsAreCompressedAndChecked(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	defer fs.Close()

	data := []byte(`{"name":"Ada","padding":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}`)
	id, err := fs.PutBlob(data)
	if err != nil {
		t.Fatalf("PutBlob: %v", err)
	}
	if _, err := fs.PutBlob(data); err != nil {
		t.Fatalf("PutBlob must be idempotent: %v", err)
	}

	raw, err := os.ReadFile(fs.blobPath(id))
	if err != nil {
		t.Fatalf("read blob: %v", err)
	}
	if string(raw) == string(data) {
		t.Fatalf("blob stored uncompressed")
	}

	got, err := fs.GetBlob(id)
	if err != nil || string(got) != string(data) {
		t.Fatalf("GetBlob = %q, %v", got, err)
	}

	other, _ := ContentID([]byte("other"))
	if _, err := fs.GetBlob(other); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := fs.GetBlob(cid.Undef); !IsNotFound(err) {
		t.Fatalf("expected ErrNotFound for undefined cid, got %v", err)
	}

	// Swap in a blob whose content does not hash to its name.
	bogus := filepath.Join(dir, "blobs", "bogus")
	if err := os.WriteFile(bogus, fs.enc.EncodeAll([]byte("tampered"), nil), 0o644); err != nil {
		t.Fatalf("write bogus: %v", err)
	}
	path := fs.blobPath(id)
	_ = os.Chmod(path, 0o644)
	if err := os.Rename(bogus, path); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if _, err := fs.GetBlob(id); !errors.Is(err, ErrCIDMismatch) {
		t.Fatalf("expected ErrCIDMismatch, got %v", err)
	}
}
