package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"career-console/internal/backend"
	common_api "career-console/internal/common/api"
	"career-console/internal/config"
	"career-console/internal/database"
	"career-console/internal/features/assessment"
	"career-console/internal/features/auth"
	cron_feature "career-console/internal/features/cron"
	import_feature "career-console/internal/features/import"
	"career-console/internal/features/system"
	"career-console/internal/identity"
	"career-console/internal/logger"
	"career-console/internal/middleware"

	_ "career-console/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// maxUploadSize bounds multipart bodies for the import file step; the
// service answers 413 for files past its own cap.
const maxUploadSize = import_feature.MaxSourceFileSize + 1<<20

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
		BodyLimit:             maxUploadSize,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg))

	return app
}

// AsRoute is a helper function to reduce boilerplate.
// It tags the constructor so Fx knows to add it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes takes the group "routes" (slice of interfaces)
// and calls Setup() on each one.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	log.Info("Registering routes", zap.Int("count", len(routes)))
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, zlog *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				zlog.Info("Listening", zap.String("addr", port), zap.String("api_base_url", cfg.APIBaseURL))
				if err := app.Listen(port); err != nil {
					log.Fatalf("Server failed to start: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}

// ManageSessions starts the idle sweep and flushes live sessions on shutdown.
// It is invoked before StartServer so Fiber stops accepting requests first.
func ManageSessions(lc fx.Lifecycle, sweeps cron_feature.SweepService, imports import_feature.ImportService, tests assessment.AssessmentService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeps.InitializeScheduler()
		},
		OnStop: func(ctx context.Context) error {
			sweeps.StopScheduler()
			tests.Shutdown()
			imports.Shutdown()
			return nil
		},
	})
}

// InitializeIndexes ensures the session collections are indexed for the
// idle sweep and owner lookups.
func InitializeIndexes(lc fx.Lifecycle, importRepo import_feature.ImportRepository, assessmentRepo assessment.AssessmentRepository, zlog *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := importRepo.EnsureIndexes(ctx); err != nil {
					zlog.Warn("Failed to ensure import session indexes", zap.Error(err))
				}
				if err := assessmentRepo.EnsureIndexes(ctx); err != nil {
					zlog.Warn("Failed to ensure test session indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

func sessionSweepers(imports import_feature.ImportService, tests assessment.AssessmentService) []cron_feature.NamedSweeper {
	return []cron_feature.NamedSweeper{
		{Name: "import", Sweeper: imports},
		{Name: "assessment", Sweeper: tests},
	}
}

//go:generate swag init --dir ./,../../internal --output ../../docs

// @title           Career Console API
// @version         1.0
// @description     Bulk import wizard and timed aptitude tests for the career recommendation platform.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Remote career backend and identity provider
			backend.NewClient,
			identity.NewProvider,
			assessment.LoadCatalog,

			// Initialize Repository
			import_feature.NewImportRepository,
			assessment.NewAssessmentRepository,
			cron_feature.NewSweepRunRepository,

			// Interface Adapters
			func(c *backend.Client) import_feature.ImportBackend { return c },
			func(c *backend.Client) assessment.AssessmentBackend { return c },
			sessionSweepers,

			// Initialize Service
			auth.NewAuthService,
			import_feature.NewImportService,
			assessment.NewAssessmentService,
			cron_feature.NewSweepService,

			// Initialize Controller
			auth.NewAuthController,
			import_feature.NewImportController,
			assessment.NewAssessmentController,
			cron_feature.NewSweepController,
			system.NewHealthController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(import_feature.NewImportApi),
			AsRoute(assessment.NewAssessmentApi),
			AsRoute(cron_feature.NewSweepApi),
			AsRoute(system.NewSystemApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			// Register Routes & Start
			RegisterAllRoutesWithAnnotation,
			ManageSessions,
			StartServer,
			InitializeIndexes,
		),
	)

	app.Run()
}
