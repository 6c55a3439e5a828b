package grpc

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/opsapi"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	DealerIDKey      ctxKey = "dealerID"
	CorrelationIDKey ctxKey = "correlationID"
)

// methods callable without a token
var publicMethods = map[string]bool{
	opsapi.FullMethod("Ping"): true,
}

func firstValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

// correlationInterceptor adopts the caller's correlation id or mints one,
// and echoes it in the response header.
func (s *GRPCServer) correlationInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	id := firstValue(ctx, common.CorrelationIDHeaderName)
	if id == "" {
		id = uuid.NewString()
	}
	ctx = context.WithValue(ctx, CorrelationIDKey, id)
	_ = grpc.SetHeader(ctx, metadata.Pairs(common.CorrelationIDHeaderName, id))

	return handler(ctx, req)
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	accessToken := firstValue(ctx, common.AccessTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	dealerID, err := auth.GetDealerIDFromToken(accessToken, s.jwtSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, DealerIDKey, dealerID)

	return handler(ctx, req)
}

func dealerIDFrom(ctx context.Context) (string, error) {
	id, _ := ctx.Value(DealerIDKey).(string)
	if id == "" {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func correlationIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(CorrelationIDKey).(string)
	return id
}
