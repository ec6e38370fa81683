// Copyright (c) 2026 Keymaster Team
// DKG Testbed - knowledge asset publishing workbench
// This source code is licensed under the MIT license found in the LICENSE file.

package grpcnode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/toeirei/dkgtestbed/internal/node"
)

// ErrUnauthenticated is returned when the publisher signature does not match.
var ErrUnauthenticated = errors.New("grpcnode: publisher signature invalid")

var codeOf = []struct {
	err  error
	code codes.Code
}{
	{node.ErrNotFound, codes.NotFound},
	{node.ErrInvalidUAL, codes.InvalidArgument},
	{node.ErrWrongNetwork, codes.InvalidArgument},
	{node.ErrInvalidContent, codes.InvalidArgument},
	{node.ErrInvalidOptions, codes.InvalidArgument},
	{node.ErrInvalidState, codes.InvalidArgument},
	{node.ErrPublisher, codes.InvalidArgument},
	{node.ErrValidation, codes.DataLoss},
	{node.ErrCIDMismatch, codes.DataLoss},
	{node.ErrImmutable, codes.AlreadyExists},
	{ErrUnauthenticated, codes.Unauthenticated},
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range codeOf {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// mapRPC restores the package sentinel a server error was built from, so
// errors.Is works across the wire. Unknown statuses pass through.
func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	msg := st.Message()
	for _, m := range codeOf {
		if m.code != st.Code() {
			continue
		}
		if rest, ok := strings.CutPrefix(msg, m.err.Error()); ok {
			return fmt.Errorf("%w%s", m.err, rest)
		}
	}
	return err
}
