package rpc

import (
	"errors"
	"fmt"

	"github.com/sachwave/sachwave/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// MapError converts a gRPC call error into one of the shared sentinel
// errors so callers can use errors.Is without importing grpc packages.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		switch st.Message() {
		case common.ErrTokenExpired.Error():
			return common.ErrTokenExpired
		case common.ErrBanned.Error():
			return common.ErrBanned
		case common.ErrNotAdmin.Error():
			return common.ErrNotAdmin
		}
		return common.ErrUnauthorized
	case codes.NotFound:
		return common.ErrNotFound
	case codes.InvalidArgument:
		if st.Message() == common.ErrAlreadyLiked.Error() {
			return common.ErrAlreadyLiked
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, st.Message())
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

// StatusFromError is the server-side inverse of MapError: it converts
// service-layer sentinel errors into gRPC status errors.
func StatusFromError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrBanned), errors.Is(err, common.ErrNotAdmin):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrValidation), errors.Is(err, common.ErrAlreadyLiked):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
