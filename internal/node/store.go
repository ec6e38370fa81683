// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package node

import (
	"bytes"
	"sync"
	"time"

	"github.com/ipfs/go-cid"
)

// Record is the metadata kept for every minted asset.
type Record struct {
	TokenID     uint64    `json:"tokenId"`
	UAL         string    `json:"ual"`
	Publisher   string    `json:"publisher"`
	CID         string    `json:"cid"`
	AssertionID string    `json:"assertionId"`
	Epochs      int       `json:"epochs"`
	Frequency   int       `json:"frequency"`
	TokenAmount int64     `json:"tokenAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store persists assertion blobs keyed by CID and asset records keyed by
// token id.
//
// Contract:
// - PutBlob MUST be idempotent and blobs MUST be immutable.
// - GetBlob and GetRecord MUST return ErrNotFound when absent.
// - NextTokenID MUST never hand out the same id twice.
type Store interface {
	PutBlob(data []byte) (cid.Cid, error)
	GetBlob(id cid.Cid) ([]byte, error)
	PutRecord(rec Record) error
	GetRecord(tokenID uint64) (Record, error)
	NextTokenID() (uint64, error)
}

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[cid.Cid][]byte
	records map[uint64]Record
	last    uint64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs:   make(map[cid.Cid][]byte),
		records: make(map[uint64]Record),
	}
}

func (m *MemoryStore) PutBlob(data []byte) (cid.Cid, error) {
	id, err := ContentID(data)
	if err != nil {
		return cid.Undef, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.blobs[id]; ok {
		if !bytes.Equal(existing, data) {
			return cid.Undef, ErrImmutable
		}
		return id, nil
	}
	m.blobs[id] = bytes.Clone(data)
	return id, nil
}

func (m *MemoryStore) GetBlob(id cid.Cid) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(b), nil
}

func (m *MemoryStore) PutRecord(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[rec.TokenID] = rec
	return nil
}

func (m *MemoryStore) GetRecord(tokenID uint64) (Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.records[tokenID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (m *MemoryStore) NextTokenID() (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last++
	return m.last, nil
}
