// Package opsapi describes the shiftly.ops.v1.Operations gRPC service: its
// messages, a JSON codec, the service descriptor and a typed client.
package opsapi

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "shiftly.ops.v1.Operations"

// FullMethod returns the gRPC path of method, e.g. /shiftly.ops.v1.Operations/Ping.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// OperationsServer is implemented by the server side of the service.
type OperationsServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	CreateConnection(context.Context, *CreateConnectionRequest) (*ConnectionResponse, error)
	ListConnections(context.Context, *ListConnectionsRequest) (*ListConnectionsResponse, error)
	RevokeConnection(context.Context, *RevokeConnectionRequest) (*RevokeConnectionResponse, error)
	SyncConnection(context.Context, *SyncConnectionRequest) (*SyncConnectionResponse, error)
	ListSyncLogs(context.Context, *ListSyncLogsRequest) (*ListSyncLogsResponse, error)
	SchedulePost(context.Context, *SchedulePostRequest) (*SchedulePostResponse, error)
	ListScheduledPosts(context.Context, *ListScheduledPostsRequest) (*ListScheduledPostsResponse, error)
	GetJobStatus(context.Context, *GetJobStatusRequest) (*JobStatus, error)
	CancelJob(context.Context, *CancelJobRequest) (*CancelJobResponse, error)
}

func unary[Req, Resp any](method string, call func(OperationsServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(OperationsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(OperationsServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc plays the role of protoc output for the JSON-coded service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OperationsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", OperationsServer.Ping),
		unary("CreateConnection", OperationsServer.CreateConnection),
		unary("ListConnections", OperationsServer.ListConnections),
		unary("RevokeConnection", OperationsServer.RevokeConnection),
		unary("SyncConnection", OperationsServer.SyncConnection),
		unary("ListSyncLogs", OperationsServer.ListSyncLogs),
		unary("SchedulePost", OperationsServer.SchedulePost),
		unary("ListScheduledPosts", OperationsServer.ListScheduledPosts),
		unary("GetJobStatus", OperationsServer.GetJobStatus),
		unary("CancelJob", OperationsServer.CancelJob),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shiftly/ops/v1/operations",
}

func RegisterOperationsServer(s grpc.ServiceRegistrar, srv OperationsServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client is the typed caller side. Every call forces the JSON codec.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", in, opts)
}

func (c *Client) CreateConnection(ctx context.Context, in *CreateConnectionRequest, opts ...grpc.CallOption) (*ConnectionResponse, error) {
	return invoke[ConnectionResponse](ctx, c.cc, "CreateConnection", in, opts)
}

func (c *Client) ListConnections(ctx context.Context, in *ListConnectionsRequest, opts ...grpc.CallOption) (*ListConnectionsResponse, error) {
	return invoke[ListConnectionsResponse](ctx, c.cc, "ListConnections", in, opts)
}

func (c *Client) RevokeConnection(ctx context.Context, in *RevokeConnectionRequest, opts ...grpc.CallOption) (*RevokeConnectionResponse, error) {
	return invoke[RevokeConnectionResponse](ctx, c.cc, "RevokeConnection", in, opts)
}

func (c *Client) SyncConnection(ctx context.Context, in *SyncConnectionRequest, opts ...grpc.CallOption) (*SyncConnectionResponse, error) {
	return invoke[SyncConnectionResponse](ctx, c.cc, "SyncConnection", in, opts)
}

func (c *Client) ListSyncLogs(ctx context.Context, in *ListSyncLogsRequest, opts ...grpc.CallOption) (*ListSyncLogsResponse, error) {
	return invoke[ListSyncLogsResponse](ctx, c.cc, "ListSyncLogs", in, opts)
}

func (c *Client) SchedulePost(ctx context.Context, in *SchedulePostRequest, opts ...grpc.CallOption) (*SchedulePostResponse, error) {
	return invoke[SchedulePostResponse](ctx, c.cc, "SchedulePost", in, opts)
}

func (c *Client) ListScheduledPosts(ctx context.Context, in *ListScheduledPostsRequest, opts ...grpc.CallOption) (*ListScheduledPostsResponse, error) {
	return invoke[ListScheduledPostsResponse](ctx, c.cc, "ListScheduledPosts", in, opts)
}

func (c *Client) GetJobStatus(ctx context.Context, in *GetJobStatusRequest, opts ...grpc.CallOption) (*JobStatus, error) {
	return invoke[JobStatus](ctx, c.cc, "GetJobStatus", in, opts)
}

func (c *Client) CancelJob(ctx context.Context, in *CancelJobRequest, opts ...grpc.CallOption) (*CancelJobResponse, error) {
	return invoke[CancelJobResponse](ctx, c.cc, "CancelJob", in, opts)
}
