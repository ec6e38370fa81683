// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package grpcnode

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/toeirei/dkgtestbed/internal/logging"
	"github.com/toeirei/dkgtestbed/internal/node"
)

// Server exposes a node.Service over the Assets gRPC service.
type Server struct {
	UnimplementedAssetsServer
	Node *node.Service
}

func (s *Server) Create(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s == nil || s.Node == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing node")
	}
	content := in.GetFields()["content"].GetStructValue()
	if content == nil {
		return nil, status.Error(codes.InvalidArgument, node.ErrInvalidContent.Error())
	}
	doc := content.AsMap()

	md, _ := metadata.FromIncomingContext(ctx)
	publisher, err := verify(md, doc)
	if err != nil {
		return nil, mapErr(err)
	}

	opts := in.GetFields()["options"].GetStructValue().GetFields()
	a, err := s.Node.Create(ctx, publisher, doc, node.CreateOptions{
		Epochs:      int(opts["epochs"].GetNumberValue()),
		Frequency:   int(opts["frequency"].GetNumberValue()),
		TokenAmount: int64(opts["tokenAmount"].GetNumberValue()),
	})
	if err != nil {
		return nil, mapErr(err)
	}
	logging.Infof("minted %s for %s", a.UAL, publisher)

	return structpb.NewStruct(map[string]any{
		"UAL":         a.UAL,
		"assertionId": a.AssertionID,
		"cid":         a.CID,
	})
}

func (s *Server) Get(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	if s == nil || s.Node == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing node")
	}
	f := in.GetFields()
	a, err := s.Node.Get(ctx, f["ual"].GetStringValue(), node.GetOptions{
		State:    f["state"].GetStringValue(),
		Validate: f["validate"].GetBoolValue(),
	})
	if err != nil {
		return nil, mapErr(err)
	}

	assertion, err := newStruct(a.Assertion)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"assertion":   structpb.NewStructValue(assertion),
		"assertionId": structpb.NewStringValue(a.AssertionID),
		"state":       structpb.NewStringValue(a.State),
	}}, nil
}

// Serve runs the Assets service for svc on lis until ctx is done, then stops
// gracefully. It returns nil on a context-triggered shutdown.
func Serve(ctx context.Context, lis net.Listener, svc *node.Service, opts ...grpc.ServerOption) error {
	srv := grpc.NewServer(opts...)
	RegisterAssetsServer(srv, &Server{Node: svc})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(lis) }()
	logging.Infof("node serving on %s", lis.Addr())

	select {
	case <-ctx.Done():
		srv.GracefulStop()
		<-errCh
		return nil
	case err := <-errCh:
		return err
	}
}
