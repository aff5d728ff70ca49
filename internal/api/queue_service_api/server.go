package queue_service_api

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/opdqueue/internal/domain"
	"github.com/Domenick1991/opdqueue/internal/service/queue"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SessionHeader carries the session holder id in gRPC metadata.
const SessionHeader = "x-session-id"

type Display interface {
	Board(ctx context.Context, doctorID, date string, limits queue.Limits) (*queue.Board, error)
	Hall(ctx context.Context, date string, limits queue.Limits) (*queue.Hall, error)
}

type ScopeChecker interface {
	IsActive(ctx context.Context, holder string, scope domain.Scope) (bool, error)
}

// Server implements QueueDisplayServer on top of the queue projector.
type Server struct {
	display Display
	limits  queue.Limits
	now     func() time.Time
}

func NewServer(display Display, limits queue.Limits) *Server {
	return &Server{display: display, limits: limits, now: time.Now}
}

func (s *Server) GetBoard(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	doctorID := stringField(req, "doctor_id")
	if doctorID == "" {
		return nil, status.Error(codes.InvalidArgument, "doctor_id is required")
	}
	board, err := s.display.Board(ctx, doctorID, s.date(req), s.limits)
	if err != nil {
		return nil, ToStatus(err)
	}
	return toStruct(board)
}

func (s *Server) GetHall(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	hall, err := s.display.Hall(ctx, s.date(req), s.limits)
	if err != nil {
		return nil, ToStatus(err)
	}
	return toStruct(hall)
}

func (s *Server) date(req *structpb.Struct) string {
	if d := stringField(req, "date"); d != "" {
		return d
	}
	return s.now().Format(domain.DateLayout)
}

func stringField(req *structpb.Struct, name string) string {
	if req == nil {
		return ""
	}
	v, ok := req.GetFields()[name]
	if !ok {
		return ""
	}
	return v.GetStringValue()
}

func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// ToStatus maps the domain error taxonomy onto gRPC codes.
func ToStatus(err error) error {
	var race *domain.RaceError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAuth):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.As(err, &race), errors.Is(err, domain.ErrBookingInProgress):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, domain.ErrCapacityExceeded), errors.Is(err, domain.ErrSlotTaken),
		errors.Is(err, domain.ErrDoctorBusy), errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	}
	return status.Error(codes.Internal, err.Error())
}

// RequireScope rejects calls to the display service unless the caller's session holds scope.
// Other services on the same server pass through.
func RequireScope(checker ScopeChecker, scope domain.Scope) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if info.FullMethod != getBoardMethod && info.FullMethod != getHallMethod {
			return handler(ctx, req)
		}
		var holder string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(SessionHeader); len(vals) > 0 {
				holder = vals[0]
			}
		}
		if holder == "" {
			return nil, status.Error(codes.Unauthenticated, domain.ErrAuth.Error())
		}
		active, err := checker.IsActive(ctx, holder, scope)
		if err != nil {
			return nil, status.Error(codes.Internal, err.Error())
		}
		if !active {
			return nil, status.Error(codes.Unauthenticated, domain.ErrAuth.Error())
		}
		return handler(ctx, req)
	}
}

var _ QueueDisplayServer = (*Server)(nil)
