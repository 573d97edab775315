package grpc

import (
	"context"
	"errors"

	"github.com/sachwave/sachwave/internal/common"
	"github.com/sachwave/sachwave/internal/rpc"
	"github.com/sachwave/sachwave/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

// openMethods can be called without an access token.
var openMethods = map[string]bool{
	"/" + rpc.ServiceName + "/Register":         true,
	"/" + rpc.ServiceName + "/Login":            true,
	"/" + rpc.ServiceName + "/RefreshToken":     true,
	"/" + rpc.ServiceName + "/Ping":             true,
	"/" + rpc.ServiceName + "/GetClientVersion": true,
}

// accessTokenInterceptor authenticates every non-open call by reading the
// access token from request metadata and stashing the caller's user ID in
// the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !openMethods[info.FullMethod] {

		var accessToken string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(common.AccessTokenHeaderName)
			if len(values) > 0 {
				accessToken = values[0]
			}
		}
		if len(accessToken) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}

		userID, err := auth.GetUserIDFromToken(accessToken, s.jwtSecret)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
			}
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}

		ctx = context.WithValue(ctx, userIDKey, userID)

	}

	return handler(ctx, req)
}

// callerID returns the authenticated user ID placed in the context by the
// interceptor.
func callerID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(userIDKey).(string)
	if !ok || id == "" {
		return "", common.ErrUnauthorized
	}
	return id, nil
}
