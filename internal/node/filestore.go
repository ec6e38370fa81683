// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package node

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/klauspost/compress/zstd"
)

// FileStore is a filesystem-backed Store.
//
// Blobs live under blobs/<xx>/<cid>.zst, zstd-compressed; the CID is always
// computed over the uncompressed bytes. Records live under assets/<id>.json.
type FileStore struct {
	root string

	mu   sync.Mutex
	last uint64

	enc *zstd.Encoder
	dec *zstd.Decoder
}

var _ Store = (*FileStore)(nil)

// NewFileStore opens (or creates) a store rooted at root and recovers the
// highest token id already minted there.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("node: store root directory is required")
	}
	for _, dir := range []string{"blobs", "assets"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, err
		}
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		_ = enc.Close()
		return nil, err
	}
	fs := &FileStore{root: root, enc: enc, dec: dec}
	if err := fs.recover(); err != nil {
		fs.Close()
		return nil, err
	}
	return fs, nil
}

// Close releases the codec resources.
func (f *FileStore) Close() {
	_ = f.enc.Close()
	f.dec.Close()
}

func (f *FileStore) recover() error {
	entries, err := os.ReadDir(filepath.Join(f.root, "assets"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".json")
		if !ok {
			continue
		}
		id, err := strconv.ParseUint(name, 10, 64)
		if err != nil {
			continue
		}
		if id > f.last {
			f.last = id
		}
	}
	return nil
}

func (f *FileStore) PutBlob(data []byte) (cid.Cid, error) {
	id, err := ContentID(data)
	if err != nil {
		return cid.Undef, err
	}
	path := f.blobPath(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return cid.Undef, err
	}

	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if os.IsExist(err) {
			existing, rerr := f.GetBlob(id)
			if rerr != nil || !bytes.Equal(existing, data) {
				return cid.Undef, ErrImmutable
			}
			return id, nil
		}
		return cid.Undef, err
	}

	if _, err := out.Write(f.enc.EncodeAll(data, nil)); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return cid.Undef, err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(path)
		return cid.Undef, err
	}
	return id, nil
}

func (f *FileStore) GetBlob(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrNotFound
	}
	raw, err := os.ReadFile(f.blobPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	b, err := f.dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("node: decompress %s: %w", id, err)
	}
	got, err := ContentID(b)
	if err != nil {
		return nil, err
	}
	if !got.Equals(id) {
		return nil, ErrCIDMismatch
	}
	return b, nil
}

func (f *FileStore) PutRecord(rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.recordPath(rec.TokenID) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.recordPath(rec.TokenID))
}

func (f *FileStore) GetRecord(tokenID uint64) (Record, error) {
	var rec Record
	data, err := os.ReadFile(f.recordPath(tokenID))
	if err != nil {
		if os.IsNotExist(err) {
			return rec, ErrNotFound
		}
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("node: corrupt record %d: %w", tokenID, err)
	}
	return rec, nil
}

func (f *FileStore) NextTokenID() (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last++
	return f.last, nil
}

func (f *FileStore) blobPath(id cid.Cid) string {
	s := id.String()
	if len(s) < 2 {
		return filepath.Join(f.root, "blobs", s+".zst")
	}
	return filepath.Join(f.root, "blobs", s[len(s)-2:], s+".zst")
}

func (f *FileStore) recordPath(tokenID uint64) string {
	return filepath.Join(f.root, "assets", strconv.FormatUint(tokenID, 10)+".json")
}
