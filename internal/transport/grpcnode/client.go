// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package grpcnode

import (
	"context"
	"crypto/ecdsa"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/toeirei/dkgtestbed/client"
	"github.com/toeirei/dkgtestbed/config"
	"github.com/toeirei/dkgtestbed/internal/credential"
)

// ProviderName is the registry name of the gRPC provider.
const ProviderName = "grpc"

// Provider builds gRPC-backed client handles. Connections are established
// lazily on the first call.
type Provider struct {
	// Target overrides the address derived from the network config.
	Target string
	// DialOptions are appended to the defaults (tests inject a dialer here).
	DialOptions []grpc.DialOption
	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

var _ client.Provider = Provider{}

func (p Provider) NewClient(cfg config.NetworkConfig) (client.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var key *ecdsa.PrivateKey
	err := cfg.Blockchain.PrivateKey.Use(func(b []byte) error {
		var err error
		key, err = crypto.HexToECDSA(credential.StripPrefix(string(b)))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}

	creds := insecure.NewCredentials()
	if cfg.UseSSL {
		creds = credentials.NewTLS(&tls.Config{ServerName: cfg.Endpoint, MinVersion: tls.VersionTLS12})
	}
	dialOpts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if p.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(p.MaxMsgBytes),
			grpc.MaxCallSendMsgSize(p.MaxMsgBytes),
		))
	}
	dialOpts = append(dialOpts, p.DialOptions...)

	target := p.Target
	if target == "" {
		target = cfg.Address()
	}
	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, assets: NewAssetsClient(cc), key: key, Timeout: p.Timeout}, nil
}

// Client implements client.Client over the Assets gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	assets AssetsClient
	key    *ecdsa.PrivateKey

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

var _ client.Client = (*Client)(nil)

func (c *Client) Create(ctx context.Context, content client.Content, opts client.CreateOptions) (client.CreateResult, error) {
	req, err := newCreateRequest(content, opts)
	if err != nil {
		return client.CreateResult{}, err
	}
	// Sign what the server will see after decoding, not the caller's map.
	md, err := sign(c.key, req.GetFields()["content"].GetStructValue().AsMap())
	if err != nil {
		return client.CreateResult{}, err
	}

	ctx, cancel := c.ctx(metadata.NewOutgoingContext(ctx, md))
	defer cancel()
	reply, err := c.assets.Create(ctx, req)
	if err != nil {
		return client.CreateResult{}, mapRPC(err)
	}
	f := reply.GetFields()
	return client.CreateResult{
		UAL:         f["UAL"].GetStringValue(),
		AssertionID: f["assertionId"].GetStringValue(),
		CID:         f["cid"].GetStringValue(),
	}, nil
}

func newCreateRequest(content map[string]any, opts client.CreateOptions) (*structpb.Struct, error) {
	doc, err := newStruct(content)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"content": structpb.NewStructValue(doc),
		"options": structpb.NewStructValue(&structpb.Struct{Fields: map[string]*structpb.Value{
			"epochs":      structpb.NewNumberValue(float64(opts.Epochs)),
			"frequency":   structpb.NewNumberValue(float64(opts.Frequency)),
			"tokenAmount": structpb.NewNumberValue(float64(opts.TokenAmount)),
		}}),
	}}, nil
}

func (c *Client) Get(ctx context.Context, ual string, opts client.GetOptions) (client.GetResult, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"ual":      structpb.NewStringValue(ual),
		"state":    structpb.NewStringValue(opts.State),
		"validate": structpb.NewBoolValue(opts.Validate),
	}}

	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.assets.Get(ctx, req)
	if err != nil {
		return client.GetResult{}, mapRPC(err)
	}
	f := reply.GetFields()
	res := client.GetResult{
		AssertionID: f["assertionId"].GetStringValue(),
		State:       f["state"].GetStringValue(),
	}
	if a := f["assertion"].GetStructValue(); a != nil {
		res.Assertion = a.AsMap()
	}
	return res, nil
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
