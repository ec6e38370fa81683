// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/toeirei/dkgtestbed/client"
	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/internal/credential"
	"github.com/toeirei/dkgtestbed/internal/logging"
)

// HandleFactory builds client handles. client.Factory implements it.
type HandleFactory interface {
	Create(secret string, cfg config.NetworkConfig) (client.Client, error)
}

// State is a point-in-time copy of the session.
type State struct {
	Initialized   bool           `json:"initialized"`
	Busy          bool           `json:"busy"`
	LastError     *ErrorInfo     `json:"lastError,omitempty"`
	LastUAL       string         `json:"lastUal,omitempty"`
	LastAssertion client.Content `json:"lastAssertion,omitempty"`
	Wallet        client.Wallet  `json:"-"`
}

// Coordinator owns one session: the client handle, the busy flag and the
// result of the last operation. At most one remote operation runs at a time;
// a second one started meanwhile fails with KindBusy.
type Coordinator struct {
	factory  HandleFactory
	network  config.NetworkConfig
	clock    Clock
	observer Observer

	mu            sync.Mutex
	handle        client.Client
	gen           uint64 // bumped whenever handle is replaced
	wallet        client.Wallet
	busy          bool
	inflightGen   uint64
	lastErr       *ErrorInfo
	lastUAL       string
	lastAssertion client.Content
}

// Option customises a Coordinator.
type Option func(*Coordinator)

// WithClock replaces the clock used to time outcomes.
func WithClock(c Clock) Option { return func(co *Coordinator) { co.clock = c } }

// WithObserver registers o to receive an Outcome after every operation.
func WithObserver(o Observer) Option { return func(co *Coordinator) { co.observer = o } }

// NewCoordinator returns an uninitialized coordinator bound to network.
func NewCoordinator(factory HandleFactory, network config.NetworkConfig, opts ...Option) *Coordinator {
	c := &Coordinator{
		factory: factory,
		network: network.WithPrivateKey(nil),
		clock:   SystemClock,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Network returns the network the coordinator builds handles for.
func (c *Coordinator) Network() config.NetworkConfig { return c.network }

// State returns a snapshot of the session.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := State{
		Initialized:   c.handle != nil,
		Busy:          c.busy,
		LastUAL:       c.lastUAL,
		LastAssertion: c.lastAssertion,
		Wallet:        c.wallet,
	}
	if c.lastErr != nil {
		e := *c.lastErr
		s.LastError = &e
	}
	return s
}

// Initialize builds a handle for secret and swaps it in. A failure leaves the
// session uninitialized. Results of the previous credential are dropped
// either way. A handle still serving an in-flight operation is closed once
// that operation completes.
func (c *Coordinator) Initialize(secret string) error {
	start := c.clock.Now()
	h, err := c.factory.Create(secret, c.network)

	var wallet client.Wallet
	if err == nil {
		wallet = deriveWallet(secret)
	}

	c.mu.Lock()
	old, oldGen := c.handle, c.gen
	c.handle = h
	c.gen++
	c.wallet = wallet
	c.lastUAL = ""
	c.lastAssertion = nil
	var opErr *Error
	if err != nil {
		c.handle = nil
		opErr = wrapError(KindConfiguration, OpInitialize, "failed to initialize DKG", err)
		c.lastErr = infoOf(opErr)
	} else {
		c.lastErr = nil
	}
	closeOld := old != nil && !(c.busy && c.inflightGen == oldGen)
	c.mu.Unlock()

	if closeOld {
		c.closeHandle(old)
	}

	out := Outcome{Op: OpInitialize, Started: start, Duration: c.clock.Now().Sub(start)}
	if !wallet.IsZero() {
		out.Wallet = wallet.String()
	}
	if opErr != nil {
		out.Kind, out.Message = opErr.Kind, opErr.Message
		c.notify(out)
		return opErr
	}
	logging.Infof("client initialized for wallet %s", wallet)
	c.notify(out)
	return nil
}

// Reset ends the session: the handle and all results are dropped.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	old, oldGen := c.handle, c.gen
	c.handle = nil
	c.gen++
	c.wallet = client.Wallet{}
	c.lastErr = nil
	c.lastUAL = ""
	c.lastAssertion = nil
	closeOld := old != nil && !(c.busy && c.inflightGen == oldGen)
	c.mu.Unlock()

	if closeOld {
		c.closeHandle(old)
	}
}

// Publish parses raw as a JSON object and publishes it.
func (c *Coordinator) Publish(ctx context.Context, raw string) (PublishResult, error) {
	start := c.clock.Now()
	content, perr := ParseContent(raw)

	h, gen, err := c.begin(OpPublish, perr)
	if err != nil {
		c.notify(c.outcome(OpPublish, "", start, err))
		return PublishResult{}, err
	}

	var res PublishResult
	err = c.run(OpPublish, h, gen, func() (err error) {
		res, err = Publish(ctx, h, content)
		return err
	}, func() {
		c.lastUAL = res.UAL
	})
	c.notify(c.outcome(OpPublish, res.UAL, start, err))
	return res, err
}

// Retrieve fetches the assertion for ual. It does not use LastUAL on its own.
func (c *Coordinator) Retrieve(ctx context.Context, ual string) (RetrieveResult, error) {
	start := c.clock.Now()

	h, gen, err := c.begin(OpRetrieve, validateLocator(ual))
	if err != nil {
		c.notify(c.outcome(OpRetrieve, strings.TrimSpace(ual), start, err))
		return RetrieveResult{}, err
	}

	var res RetrieveResult
	err = c.run(OpRetrieve, h, gen, func() (err error) {
		res, err = Retrieve(ctx, h, ual)
		return err
	}, func() {
		c.lastAssertion = res.Assertion
	})
	c.notify(c.outcome(OpRetrieve, strings.TrimSpace(ual), start, err))
	return res, err
}

// begin checks preconditions in order (handle, input, busy) and marks the
// session busy. The handle returned is the one the operation must use.
func (c *Coordinator) begin(op string, inputErr error) (client.Client, uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.handle == nil {
		err := newError(KindNotInitialized, op, "client is not initialized")
		c.lastErr = infoOf(err)
		return nil, 0, err
	}
	if inputErr != nil {
		c.lastErr = infoOf(inputErr)
		return nil, 0, inputErr
	}
	if c.busy {
		return nil, 0, newError(KindBusy, op, "another operation is in progress")
	}

	c.busy = true
	c.inflightGen = c.gen
	c.lastErr = nil
	if op == OpPublish {
		c.lastUAL = ""
	}
	return c.handle, c.gen, nil
}

// run calls fn and always releases the session afterwards. A panic raised by
// the client is reported as a failed remote operation.
func (c *Coordinator) run(op string, h client.Client, gen uint64, fn func() error, record func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorf("client panicked during %s: %v", op, r)
			err = wrapError(KindRemoteOperation, op, "client panicked", fmt.Errorf("%v", r))
		}
		c.finish(h, gen, err, record)
	}()
	return fn()
}

// finish releases the busy flag. Results are recorded only if the handle
// used is still the current one; a handle replaced meanwhile is closed.
func (c *Coordinator) finish(h client.Client, gen uint64, err error, record func()) {
	c.mu.Lock()
	c.busy = false
	stale := gen != c.gen
	if !stale {
		if err != nil {
			c.lastErr = infoOf(err)
		} else {
			record()
		}
	}
	c.mu.Unlock()

	if stale {
		logging.Debugf("operation finished on a replaced client handle; closing it")
		c.closeHandle(h)
	}
}

func (c *Coordinator) closeHandle(h client.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := h.Close(ctx); err != nil {
		logging.Warnf("closing client handle: %v", err)
	}
}

func (c *Coordinator) outcome(op, ual string, start time.Time, err error) Outcome {
	c.mu.Lock()
	wallet := c.wallet
	c.mu.Unlock()

	out := Outcome{Op: op, UAL: ual, Started: start, Duration: c.clock.Now().Sub(start)}
	if !wallet.IsZero() {
		out.Wallet = wallet.String()
	}
	if err != nil {
		info := infoOf(err)
		out.Kind, out.Message = info.Kind, info.Message
	}
	return out
}

func (c *Coordinator) notify(o Outcome) {
	if c.observer != nil {
		c.observer.Observe(o)
	}
}

func deriveWallet(secret string) client.Wallet {
	key, err := credential.Normalize(secret)
	if err != nil {
		return client.Wallet{}
	}
	defer key.Zero()
	w, err := client.DeriveWallet(key)
	if err != nil {
		logging.Debugf("could not derive wallet address: %v", err)
		return client.Wallet{}
	}
	return w
}
