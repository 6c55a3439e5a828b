package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/opsapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	*opsapi.Client
	conn        *grpc.ClientConn
	accessToken string
}

func withMetadata(ctx context.Context, key, value string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(key, value)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) metadataInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if s.accessToken != "" {
		ctx = withMetadata(ctx, common.AccessTokenHeaderName, s.accessToken)
	}

	if md, _ := metadata.FromOutgoingContext(ctx); len(md.Get(common.CorrelationIDHeaderName)) == 0 {
		ctx = withMetadata(ctx, common.CorrelationIDHeaderName, uuid.NewString())
	}

	return MapError(invoker(ctx, method, req, reply, cc, opts...))
}

// NewGRPCClient dials endpointURL lazily. Extra dial options are appended,
// which is how tests plug in an in-memory listener.
func NewGRPCClient(endpointURL, accessToken string, extra ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{accessToken: accessToken}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.metadataInterceptor),
	}, extra...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.Client = opsapi.NewClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// MapError wraps a gRPC status in the matching sentinel, keeping the server
// message.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var sentinel error
	switch st.Code() {
	case codes.Unauthenticated:
		sentinel = common.ErrorUnauthorized
		if st.Message() == "token expired" {
			sentinel = common.ErrTokenExpired
		}
	case codes.PermissionDenied:
		sentinel = common.ErrorUnauthorized
	case codes.NotFound:
		sentinel = common.ErrorNotFound
	case codes.InvalidArgument:
		sentinel = common.ErrInvalidInput
	case codes.AlreadyExists:
		sentinel = common.ErrAlreadyExists
	case codes.FailedPrecondition:
		sentinel = common.ErrInvalidState
	default:
		return err
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
