package main

import (
	"context"
	"fmt"
	"log"

	"go-helpdesk/internal/bridge"
	common_api "go-helpdesk/internal/common/api"
	"go-helpdesk/internal/config"
	"go-helpdesk/internal/database"
	"go-helpdesk/internal/features/audit"
	"go-helpdesk/internal/features/auth"
	"go-helpdesk/internal/features/mapping"
	"go-helpdesk/internal/features/permission"
	"go-helpdesk/internal/features/retention"
	"go-helpdesk/internal/features/role"
	"go-helpdesk/internal/features/system"
	"go-helpdesk/internal/features/ticket"
	"go-helpdesk/internal/features/user"
	"go-helpdesk/internal/logger"
	"go-helpdesk/internal/middleware"
	"go-helpdesk/pkg/utils"

	_ "go-helpdesk/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer() *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
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

	app.Use(middleware.CORSMiddleware())

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
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route) {
	log.Printf("Registering %d routes...\n", len(routes))
	for _, route := range routes {
		route.Setup(app)
	}
	log.Println("All routes registered successfully")
}

// RegisterAllRoutesWithAnnotation wraps RegisterAllRoutes with fx annotations
var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`),
)

// StartServer creates a lifecycle hook to start Fiber in a goroutine
// and shut it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
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

// WarmCatalogs loads the role and mapping catalogs plus the schema snapshot
// at startup so the first request does not pay the bridge round-trips. A cold
// bridge is logged, not fatal: every catalog reloads lazily on first use.
func WarmCatalogs(lc fx.Lifecycle, roleService role.RoleService, mappingService mapping.MappingService, zlog *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := roleService.Refresh(context.Background()); err != nil {
					zlog.Warn("Role catalog warm-up failed", zap.Error(err))
				}
				if _, err := mappingService.RefreshSchema(context.Background()); err != nil {
					zlog.Warn("Mapping catalog warm-up failed", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// @title           School Help-Desk API
// @version         1.0
// @description     Ticket triage, asset and vendor administration over a spreadsheet-backed store.

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Database and Store Bridge
			database.NewDatabase,
			bridge.NewStore,

			// Websocket event hub
			system.NewHub,

			// Initialize Repository
			audit.NewAuditRepository,
			retention.NewRetentionRepository,
			role.NewRoleRepository,
			mapping.NewMappingRepository,
			user.NewUserRepository,
			ticket.NewTicketRepository,

			audit.NewAuditService,
			retention.NewRetentionService,
			role.NewRoleService,
			mapping.NewMappingService,
			user.NewUserService,
			ticket.NewTicketService,
			auth.NewAuthService,

			// Interface Adapters to break circular dependencies and satisfy Fx
			func(r user.UserRepository) role.UserFinder { return r },
			func(s role.RoleService) middleware.PermissionChecker { return s },
			func(s role.RoleService) permission.Checker { return s },
			func(cfg *config.Config) fiber.Handler { return middleware.AuthMiddleware(cfg.SkipAuth) },

			// Initialize Controller
			auth.NewAuthController,
			role.NewRoleController,
			permission.NewPermissionController,
			mapping.NewMappingController,
			user.NewUserController,
			ticket.NewTicketController,
			audit.NewAuditController,
			retention.NewRetentionController,
			system.NewWebSocketController,

			// Initialize API Routes
			AsRoute(auth.NewAuthApi),
			AsRoute(role.NewRoleApi),
			AsRoute(permission.NewPermissionApi),
			AsRoute(mapping.NewMappingApi),
			AsRoute(user.NewUserApi),
			AsRoute(ticket.NewTicketApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(retention.NewRetentionApi),
			AsRoute(system.NewHealthApi),
			AsRoute(system.NewSwaggerApi),
			AsRoute(system.NewWebSocketApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) { utils.SetSecret(cfg.JWTSecret) },
			RegisterAllRoutesWithAnnotation,
			StartServer,
			WarmCatalogs,
			func(lc fx.Lifecycle, retentionService retention.RetentionService) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return retentionService.InitializeScheduler(ctx)
					},
					OnStop: func(ctx context.Context) error {
						return retentionService.StopScheduler()
					},
				})
			},
		),
	)

	app.Run()
}
