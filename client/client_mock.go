// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
package client

import (
	"context"
)

type MockClient struct {
	BaseClient Client
	Overwrites MockClientOverwrites
}

type MockClientOverwrites struct {
	Close  func(ctx context.Context) error
	Create func(ctx context.Context, content Content, opts CreateOptions) (CreateResult, error)
	Get    func(ctx context.Context, ual string, opts GetOptions) (GetResult, error)
}

var _ Client = (*MockClient)(nil)

// client := NewMockClient(nil, MockClientOverwrites{ /* overwrite Client methods here... */ })
func NewMockClient(base Client, overwrites MockClientOverwrites) *MockClient {
	return &MockClient{
		BaseClient: base,
		Overwrites: overwrites,
	}
}

func (m *MockClient) Close(ctx context.Context) error {
	if m.Overwrites.Close != nil {
		return m.Overwrites.Close(ctx)
	} else if m.BaseClient != nil {
		return m.BaseClient.Close(ctx)
	}
	return nil
}

func (m *MockClient) Create(ctx context.Context, content Content, opts CreateOptions) (CreateResult, error) {
	if m.Overwrites.Create != nil {
		return m.Overwrites.Create(ctx, content, opts)
	} else if m.BaseClient != nil {
		return m.BaseClient.Create(ctx, content, opts)
	}
	panic("MockClient.Create not implemented")
}

func (m *MockClient) Get(ctx context.Context, ual string, opts GetOptions) (GetResult, error) {
	if m.Overwrites.Get != nil {
		return m.Overwrites.Get(ctx, ual, opts)
	} else if m.BaseClient != nil {
		return m.BaseClient.Get(ctx, ual, opts)
	}
	panic("MockClient.Get not implemented")
}
