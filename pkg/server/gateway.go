package server

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/SmartFormAI/FormGuard/pkg/config"
	handlers "github.com/SmartFormAI/FormGuard/pkg/handlers/http"
	"github.com/SmartFormAI/FormGuard/pkg/middleware"
)

type (
	GatewayServerDI struct {
		MiddlewareTransport middleware.Transport
		HandlerTransport    handlers.HandlerTransport
		Config              *config.Config
		Logger              *logrus.Logger
	}
	GatewayServer struct {
		*BaseServer
		middlewareTransport middleware.Transport
		handlerTransport    handlers.HandlerTransport
	}
)

func NewGatewayServer(di GatewayServerDI) *GatewayServer {
	return &GatewayServer{
		BaseServer:          NewBaseServer(di.Config, di.Logger),
		middlewareTransport: di.MiddlewareTransport,
		handlerTransport:    di.HandlerTransport,
	}
}

func (s *GatewayServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("Starting gateway server")
	return s.Router.Listen(addr)
}

func (s *GatewayServer) setupRoutes() {
	s.Router.Use(s.middlewareTransport.PanicRecoverMiddleware.Middleware())
	s.Router.Use(s.middlewareTransport.MetricsMiddleware.Middleware())

	v1 := s.Router.Group("/api/v1")
	{
		v1.Get("/version", s.handlerTransport.GetVersionHandler.Handle)

		// Public scan and submission endpoints, rate limited per client IP.
		rateLimited := v1.Group("", s.middlewareTransport.RateLimiterMiddleware.Middleware())
		{
			rateLimited.Post("/scan-input", s.handlerTransport.ScanInputHandler.Handle)
			rateLimited.Post("/submissions", s.handlerTransport.SubmitFormHandler.Handle)
		}

		// Dashboard endpoints require a bearer token.
		dashboard := v1.Group("", s.middlewareTransport.AuthMiddleware.Middleware())
		{
			dashboard.Get("/submissions", s.handlerTransport.ListSubmissionsHandler.Handle)
			dashboard.Get("/security-logs", s.handlerTransport.ListSecurityLogsHandler.Handle)
		}
	}
}

func (s *GatewayServer) Shutdown() error {
	return s.Router.Shutdown()
}
