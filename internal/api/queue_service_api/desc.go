package queue_service_api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "opd.queue.v1.QueueDisplay"

const (
	getBoardMethod = "/" + ServiceName + "/GetBoard"
	getHallMethod  = "/" + ServiceName + "/GetHall"
)

// QueueDisplayServer exchanges google.protobuf.Struct payloads so the service needs no generated stubs.
type QueueDisplayServer interface {
	GetBoard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetHall(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var QueueDisplay_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*QueueDisplayServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetBoard", Handler: getBoardHandler},
		{MethodName: "GetHall", Handler: getHallHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "opd/queue/v1/display.proto",
}

func RegisterQueueDisplayServer(s grpc.ServiceRegistrar, srv QueueDisplayServer) {
	s.RegisterService(&QueueDisplay_ServiceDesc, srv)
}

func getBoardHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueueDisplayServer).GetBoard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getBoardMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueueDisplayServer).GetBoard(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getHallHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(QueueDisplayServer).GetHall(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getHallMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(QueueDisplayServer).GetHall(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

type QueueDisplayClient interface {
	GetBoard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetHall(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type queueDisplayClient struct {
	cc grpc.ClientConnInterface
}

func NewQueueDisplayClient(cc grpc.ClientConnInterface) QueueDisplayClient {
	return &queueDisplayClient{cc: cc}
}

func (c *queueDisplayClient) GetBoard(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getBoardMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queueDisplayClient) GetHall(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, getHallMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
