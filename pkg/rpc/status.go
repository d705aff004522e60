package rpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/platinummonkey/rococo/pkg/media"
	"github.com/platinummonkey/rococo/pkg/storage"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToStatus converts a backend error into a gRPC status error.
// Errors that already carry a status pass through.
func ToStatus(err error, entity string) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case storage.IsNotFound(err):
		return status.Errorf(codes.NotFound, "%s not found", entity)
	case storage.IsConflict(err):
		return status.Errorf(codes.AlreadyExists, "%s already exists", entity)
	case errors.Is(err, media.ErrNotDataURL), errors.Is(err, media.ErrNotImage), errors.Is(err, media.ErrTooLarge):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Errorf(codes.Internal, "%s: internal error", entity)
	}
}

// InvalidArgument returns an InvalidArgument status
func InvalidArgument(format string, args ...interface{}) error {
	return status.Error(codes.InvalidArgument, fmt.Sprintf(format, args...))
}
