package http

import (
	"context"
	"time"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/http/middlewares"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/userhub/internal/repo/postgres"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func NewRouter(cfg config.Config, pool *pgxpool.Pool) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware

	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("userhub"))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(middlewares.RequireJSON())

	promRegistry := prometheus.NewRegistry()
	prom := observability.NewProm(promRegistry)
	r.Use(prom.GinHandleMiddleware())

	// health
	ping := func() error {
		if pool == nil {
			return nil
		}

		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()

		return pool.Ping(ctx)
	}

	h := handlers.NewHealthHandler(ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	// wire up the users repository + handler
	usersRepo := postgres.NewUsersRepo(pool, prom)
	jwtManager := auth.NewManager(cfg.JWTSecret, auth.TokenTTL)
	usersHandler := handlers.NewUsersHandler(usersRepo, jwtManager, cfg.BcryptCost)
	authMiddleware := middlewares.NewAuthMiddleware(jwtManager, usersRepo)

	api := r.Group("/api")
	api.GET("/getUsers", usersHandler.ListUsers)
	api.GET("/GetUserById/:id", usersHandler.GetUserByID)
	api.POST("/CreateUser", usersHandler.CreateUser)
	api.PATCH("/Update-partially/:id", usersHandler.UpdateUserPartial)
	// id arrives as ?id=<n>; the route deliberately has no path parameter
	api.DELETE("/DeleteUser", usersHandler.DeleteUser)

	api.GET("/me", authMiddleware.RequireAuth(), handlers.Me)

	return r
}
