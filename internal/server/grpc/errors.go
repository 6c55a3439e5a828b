package grpc

import (
	"context"
	"errors"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors to gRPC statuses. Messages come from the
// sentinel only, so wrapped detail never reaches the caller.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.ErrorNotFound.Error())
	case errors.Is(err, common.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrInvalidVehicle):
		return status.Error(codes.InvalidArgument, common.ErrInvalidVehicle.Error())
	case errors.Is(err, common.ErrUnsupportedProvider):
		return status.Error(codes.InvalidArgument, common.ErrUnsupportedProvider.Error())
	case errors.Is(err, common.ErrUnsupportedPlatform):
		return status.Error(codes.InvalidArgument, common.ErrUnsupportedPlatform.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, common.ErrAlreadyExists.Error())
	case errors.Is(err, common.ErrInvalidState):
		return status.Error(codes.FailedPrecondition, common.ErrInvalidState.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.PermissionDenied, common.ErrorUnauthorized.Error())
	case errors.Is(err, common.ErrDecryption):
		return status.Error(codes.Internal, common.ErrDecryption.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, context.Canceled.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, context.DeadlineExceeded.Error())
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
