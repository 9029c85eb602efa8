package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appmw "photofolio/internal/middleware"
	httprouters "photofolio/internal/transport/http"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string

	adminPasswordHash string
	staticDir         string
}

// Options настраивает необязательные части сервера.
type Options struct {
	AdminPasswordHash string
	// StaticDir отдаёт /static/* с диска; для локального бэкенда хранения
	StaticDir string
}

func New(log *slog.Logger, host, port string, routers *httprouters.Routers, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	e.Use(appmw.PrometheusMetrics)

	return &Server{
		log:               log,
		e:                 e,
		routers:           routers,
		host:              host,
		port:              port,
		adminPasswordHash: opts.AdminPasswordHash,
		staticDir:         opts.StaticDir,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf("%s:%s", s.host, s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	s.e.GET("/health", s.routers.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.staticDir != "" {
		s.e.Static("/static", s.staticDir)
	}

	api := s.e.Group("/api/v1")
	{
		api.GET("/images", s.routers.GetImages)
		api.GET("/categories", s.routers.GetCategories)

		admin := api.Group("", appmw.AdminGate(s.adminPasswordHash))
		{
			admin.POST("/upload", s.routers.Upload)
			admin.DELETE("/images", s.routers.DeleteImage)
			admin.POST("/webhook/trigger-deploy", s.routers.TriggerDeploy)
		}
	}
}

// Echo отдаёт низлежащий инстанс для httptest в интеграционных тестах.
func (s *Server) Echo() *echo.Echo {
	return s.e
}
