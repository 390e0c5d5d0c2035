package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"personweb/docs"
	"personweb/internal/apiclient"
	"personweb/internal/config"
	handlers "personweb/internal/http/handler"
	"personweb/internal/http/middleware"
	"personweb/internal/logging"
	"personweb/internal/otel"
	"personweb/internal/repository/httpapi"
	"personweb/internal/service"
	"personweb/web"
)

// @title Person Web API
// @version 1.0
// @description Read-only JSON view of the persons served by the web front end.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "personweb", log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.WithError(err).Warn("tracing shutdown")
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	upstream, err := apiclient.NewMetrics(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register upstream metrics")
	}

	// One JSON client per remote API; reads and writes never share a base URL
	commandClient, err := apiclient.New("command", cfg.Command, apiclient.WithLogger(log), apiclient.WithMetrics(upstream))
	if err != nil {
		log.WithError(err).Fatal("invalid command api configuration")
	}
	queryClient, err := apiclient.New("query", cfg.Query, apiclient.WithLogger(log), apiclient.WithMetrics(upstream))
	if err != nil {
		log.WithError(err).Fatal("invalid query api configuration")
	}

	personSvc := service.NewPersonService(
		httpapi.NewPersonQuery(queryClient),
		httpapi.NewPersonCommand(commandClient),
		log,
	)

	sessions := session.New(session.Config{
		KeyLookup:      "cookie:" + cfg.Session.CookieName,
		Expiration:     time.Duration(cfg.Session.ExpirationSec) * time.Second,
		CookieSecure:   cfg.Session.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		Views:                 web.NewEngine(),
		ViewsLayout:           web.Layout,
		ErrorHandler:          handlers.ErrorHandler(log),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/healthz" || c.Path() == "/metrics"
	})))
	app.Use(httpMetrics.Handler())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// Structured request logs
	app.Use(middleware.Logger(log))
	// Innermost, so a recovered panic is logged and counted like any other error
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Swagger UI with dynamic host and scheme
	docs.SwaggerInfo.Host = cfg.AppHost
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}
		if host := c.Get("Host"); host != "" {
			docs.SwaggerInfo.Host = host
		}
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	handlers.RegisterRoutes(app, handlers.Deps{
		Persons:  personSvc,
		Sessions: sessions,
		Health: map[string]handlers.Pinger{
			"command": pinger(commandClient, cfg.HealthPath),
			"query":   pinger(queryClient, cfg.HealthPath),
		},
		Log: log,
	})

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.WithError(err).Warn("server shutdown")
		}
	}()

	addr := ":" + cfg.Port
	log.WithFields(logrus.Fields{
		"addr":        addr,
		"command_api": commandClient.BaseURL(),
		"query_api":   queryClient.BaseURL(),
	}).Info("starting server")

	if err := app.Listen(addr); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}

func pinger(c *apiclient.Client, path string) handlers.Pinger {
	return handlers.PingerFunc(func(ctx context.Context) error {
		return c.Ping(ctx, path)
	})
}
