package transport

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"ntv2/internal/algorithm"
	"ntv2/internal/job"
	"ntv2/internal/logging"
	"ntv2/internal/pipeline"
	"ntv2/internal/transform"
)

type Server struct {
	grpc   *grpc.Server
	lis    net.Listener
	health *health.Server
}

func StartServer(port int, c *pipeline.Compiler) (*Server, error) {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, err
	}
	return NewServer(lis, c), nil
}

// NewServer registers the transformer and health services on lis.
func NewServer(lis net.Listener, c *pipeline.Compiler) *Server {
	s := &Server{
		grpc:   grpc.NewServer(),
		lis:    lis,
		health: health.NewServer(),
	}
	RegisterTransformerServer(s.grpc, &transformer{compiler: c})
	healthpb.RegisterHealthServer(s.grpc, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return s
}

func (s *Server) Addr() net.Addr { return s.lis.Addr() }

func (s *Server) Serve() error {
	return s.grpc.Serve(s.lis)
}

func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.GracefulStop()
}

/*──────── service ───────*/

type transformer struct {
	compiler *pipeline.Compiler
}

func (t *transformer) ListAlgorithms(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	var list []AlgorithmInfo
	for _, d := range algorithm.All() {
		list = append(list, Describe(d))
	}
	out, err := toStruct(map[string]any{"algorithms": list})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// Transform compiles and runs one request. Rejected requests fail the call;
// a transformation that starts and then fails is reported in the result.
func (t *transformer) Transform(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req job.Request
	if err := fromStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	r, err := t.compiler.Compile(req)
	if err != nil {
		return nil, status.Error(compileCode(err), err.Error())
	}
	res, err := r.Run(ctx, transform.LogFeedback{Algorithm: req.Algorithm})
	if err != nil {
		logging.L().Warn("grpc transform failed", "id", req.ID, "err", err)
	}
	out, err := toStruct(res)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

func compileCode(err error) codes.Code {
	switch {
	case errors.Is(err, algorithm.ErrOutputExists):
		return codes.AlreadyExists
	case errors.Is(err, algorithm.ErrUnsupported):
		return codes.FailedPrecondition
	default:
		return codes.InvalidArgument
	}
}
