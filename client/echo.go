// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.
package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/internal/node"
)

// EchoProviderName is the registry name of the in-process provider.
const EchoProviderName = "echo"

// ErrClosed is returned by handles used after Close.
var ErrClosed = errors.New("client is closed")

// EchoProvider builds EchoClients. Every handle gets its own in-memory node,
// so two handles never see each other's assets.
type EchoProvider struct{}

var _ Provider = EchoProvider{}

func (EchoProvider) NewClient(cfg config.NetworkConfig) (Client, error) {
	return NewEchoClient(cfg)
}

// EchoClient is an offline Client: Create stores content in a private node
// and Get returns it unchanged.
type EchoClient struct {
	wallet Wallet
	node   *node.Service

	mu     sync.Mutex
	closed bool
}

var _ Client = (*EchoClient)(nil)

// NewEchoClient derives the publisher wallet from the key in cfg.
func NewEchoClient(cfg config.NetworkConfig) (*EchoClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w, err := DeriveWallet(cfg.Blockchain.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("derive wallet: %w", err)
	}
	svc := node.NewService(cfg.Blockchain.Name, cfg.Blockchain.HubContract, node.NewMemoryStore())
	return &EchoClient{wallet: w, node: svc}, nil
}

// Wallet returns the publisher identity of the handle.
func (c *EchoClient) Wallet() Wallet { return c.wallet }

func (c *EchoClient) Create(ctx context.Context, content Content, opts CreateOptions) (CreateResult, error) {
	if err := c.open(); err != nil {
		return CreateResult{}, err
	}
	a, err := c.node.Create(ctx, c.wallet.String(), content, node.CreateOptions{
		Epochs:      opts.Epochs,
		Frequency:   opts.Frequency,
		TokenAmount: opts.TokenAmount,
	})
	if err != nil {
		return CreateResult{}, err
	}
	return CreateResult{UAL: a.UAL, AssertionID: a.AssertionID, CID: a.CID}, nil
}

func (c *EchoClient) Get(ctx context.Context, ual string, opts GetOptions) (GetResult, error) {
	if err := c.open(); err != nil {
		return GetResult{}, err
	}
	a, err := c.node.Get(ctx, ual, node.GetOptions{State: opts.State, Validate: opts.Validate})
	if err != nil {
		return GetResult{}, err
	}
	return GetResult{Assertion: a.Assertion, AssertionID: a.AssertionID, State: a.State}, nil
}

func (c *EchoClient) Close(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *EchoClient) open() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}
