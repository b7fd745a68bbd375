// Package rpc 运维用gRPC服务：健康检查和反射
//
// 业务接口都走HTTP；这里的健康状态供负载均衡和编排系统探测，
// 服务名为空串表示整个进程，ServiceName表示预订引擎本身。
package rpc

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName 健康检查中的业务服务名
const ServiceName = "lodging.Booking"

// Server gRPC服务器
type Server struct {
	srv    *grpc.Server
	health *health.Server
	logger *zap.Logger
}

// NewServer 创建服务器，注册健康检查和反射服务
// 初始状态为NOT_SERVING，依赖就绪后调用SetServing(true)
func NewServer(logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(loggingInterceptor(logger)),
		grpc.MaxRecvMsgSize(4*1024*1024),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	reflection.Register(srv)

	s := &Server{srv: srv, health: hs, logger: logger}
	s.SetServing(false)
	return s
}

// SetServing 更新健康状态
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve 阻塞处理连接，直到GracefulStop
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("grpc server listening", zap.String("addr", lis.Addr().String()))
	return s.srv.Serve(lis)
}

// GracefulStop 先把状态置为NOT_SERVING，再等待进行中的调用结束
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func loggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		if err != nil {
			logger.Warn("grpc call failed",
				zap.String("method", info.FullMethod),
				zap.Duration("latency", time.Since(start)),
				zap.Error(err),
			)
		} else {
			logger.Debug("grpc call",
				zap.String("method", info.FullMethod),
				zap.Duration("latency", time.Since(start)),
			)
		}
		return resp, err
	}
}
