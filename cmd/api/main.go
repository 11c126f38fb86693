package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mohitkulkarni1999/enquiry-crm/internal/analytics"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/assignment"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/auth"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/cache"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/comment"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/config"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/db"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/enquiry"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/middleware"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesactivity"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/salesperson"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/users"
	"github.com/mohitkulkarni1999/enquiry-crm/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connection failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("mongo connected")
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		logger.Error("index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var cacheStore cache.Cache = cache.NewNoop()
	if cfg.RedisURL != "" || cfg.RedisAddr != "" {
		var redisCache *cache.RedisCache
		var err error
		if cfg.RedisURL != "" {
			redisCache, err = cache.NewRedisFromURL(cfg.RedisURL)
		} else {
			redisCache = cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		}
		if err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := redisCache.Ping(ctx); err != nil {
			logger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("redis connected")
		cacheStore = redisCache
	}

	jwtManager := &auth.Manager{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
		Issuer:     "enquiry-crm",
	}

	val := validation.New()

	enquiryRepo := enquiry.NewRepository(cols.Enquiries)
	salesRepo := salesperson.NewRepository(cols.SalesPersons)
	commentRepo := comment.NewRepository(cols.Comments)
	activityRepo := salesactivity.NewRepository(cols.SalesActivities)
	userRepo := users.NewRepository(cols.Users)

	userService := users.NewService(userRepo, jwtManager)
	commentService := comment.NewService(commentRepo, enquiryRepo, userService)
	enquiryService := enquiry.NewService(enquiryRepo, commentService)
	salesService := salesperson.NewService(salesRepo, enquiryRepo)
	engine := assignment.NewEngine(enquiryRepo, salesRepo)
	activityService := salesactivity.NewService(activityRepo, enquiryRepo, salesRepo)

	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	enquiryHandler := enquiry.NewHandler(enquiryService, val, logger)
	salesHandler := salesperson.NewHandler(salesService, val, logger)
	assignHandler := assignment.NewHandler(engine, logger)
	commentHandler := comment.NewHandler(commentService, val, logger)
	analyticsHandler := analytics.NewHandler(enquiryRepo, salesRepo, cacheStore, cacheTTL, logger)
	activityHandler := salesactivity.NewHandler(activityService, val, logger)
	userHandler := users.NewHandler(userService, jwtManager, val, cfg.CookieSecure, logger)

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.FrontendOrigins))
	r.Use(chiMiddleware.Timeout(30 * time.Second))

	intakeLimiter := middleware.NewRateLimiter(cfg.RateLimitIntake, time.Duration(cfg.RateLimitWindowSec)*time.Second)

	anyRole := middleware.RoleAuth(cfg.AdminAPIKey, jwtManager,
		users.RoleSuperAdmin, users.RoleCRMAdmin, users.RoleSales)
	adminOnly := middleware.RoleAuth(cfg.AdminAPIKey, jwtManager,
		users.RoleSuperAdmin, users.RoleCRMAdmin)
	superAdminOnly := middleware.RoleAuth(cfg.AdminAPIKey, jwtManager,
		users.RoleSuperAdmin)

	registerRoutes := func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", userHandler.Login)
			ar.Post("/refresh", userHandler.Refresh)
			ar.Post("/logout", userHandler.Logout)
			ar.With(superAdminOnly).Post("/register", userHandler.Register)
			ar.With(anyRole).Get("/me", userHandler.Me)
		})

		api.With(adminOnly).Get("/users", userHandler.List)

		api.Route("/enquiries", func(er chi.Router) {
			// Public intake endpoint; everything else requires a session.
			er.With(intakeLimiter.Middleware).Post("/", enquiryHandler.Create)

			er.Group(func(protected chi.Router) {
				protected.Use(anyRole)
				protected.Get("/", enquiryHandler.List)
				protected.Get("/search", enquiryHandler.Search)
				protected.Get("/unassigned", enquiryHandler.Unassigned)
				protected.Get("/active", enquiryHandler.Active)
				protected.Get("/hot-leads", enquiryHandler.HotLeads)
				protected.Get("/follow-ups/due", enquiryHandler.FollowUpsDue)
				protected.Get("/follow-ups/upcoming", enquiryHandler.FollowUpsUpcoming)
				protected.Get("/count/total", enquiryHandler.CountTotal)
				protected.Get("/count/by-status/{status}", enquiryHandler.CountByStatus)
				protected.Get("/count/by-interest-level/{interestLevel}", enquiryHandler.CountByInterestLevel)
				protected.Get("/count/by-sales-person/{salesPersonId}", enquiryHandler.CountBySalesPerson)

				protected.Get("/{id}", enquiryHandler.GetByID)
				protected.Put("/{id}", enquiryHandler.Update)
				protected.With(adminOnly).Delete("/{id}", enquiryHandler.Delete)

				protected.Put("/{id}/status", enquiryHandler.UpdateStatus)
				protected.Put("/{id}/interest", enquiryHandler.UpdateInterest)
				protected.Put("/{id}/interest-level", enquiryHandler.UpdateInterestLevel)
				protected.Put("/{id}/booking-progress", enquiryHandler.UpdateBookingProgress)
				protected.Put("/{id}/cold-reason", enquiryHandler.UpdateColdReason)
				protected.Put("/{id}/unqualified", enquiryHandler.UpdateUnqualified)
				protected.Post("/{id}/assign-to-crm", enquiryHandler.AssignToCRM)
				protected.Post("/{id}/remarks", enquiryHandler.AddRemarks)
				protected.Post("/{id}/schedule-follow-up", enquiryHandler.ScheduleFollowUp)

				protected.Post("/{id}/assign/{salesPersonId}", assignHandler.Assign)
				protected.Post("/{id}/auto-assign", assignHandler.AutoAssign)
				protected.Post("/{id}/unassign", assignHandler.Unassign)

				protected.Get("/{id}/comments", commentHandler.ListByEnquiry)
				protected.Post("/{id}/comments", commentHandler.Add)
				protected.Get("/{id}/comments/count", commentHandler.CountByEnquiry)
			})
		})

		api.With(anyRole).Delete("/comments/{commentId}", commentHandler.Delete)

		api.Route("/sales-persons", func(sr chi.Router) {
			sr.Use(anyRole)
			sr.Get("/", salesHandler.List)
			sr.Get("/available", salesHandler.ListAvailable)
			sr.Get("/{id}", salesHandler.GetByID)
			sr.With(adminOnly).Post("/", salesHandler.Create)
			sr.With(adminOnly).Put("/{id}", salesHandler.Update)
			sr.With(adminOnly).Patch("/{id}/availability", salesHandler.UpdateAvailability)
			sr.With(adminOnly).Delete("/{id}", salesHandler.Delete)
		})

		api.Route("/sales-activities", func(sa chi.Router) {
			sa.Use(anyRole)
			sa.Get("/", activityHandler.List)
			sa.Post("/", activityHandler.Create)
			sa.Post("/log", activityHandler.Create)
			sa.Get("/recent", activityHandler.Recent)
			sa.Get("/by-enquiry/{enquiryId}", activityHandler.ListByEnquiry)
			sa.Get("/by-sales-person/{salesPersonId}", activityHandler.ListBySalesPerson)
			sa.Get("/count/total", activityHandler.CountTotal)
			sa.Get("/count/by-type/{activityType}", activityHandler.CountByType)
			sa.Get("/count/by-sales-person/{salesPersonId}", activityHandler.CountBySalesPerson)
			sa.Get("/{id}", activityHandler.GetByID)
			sa.Put("/{id}", activityHandler.Update)
			sa.With(adminOnly).Delete("/{id}", activityHandler.Delete)
		})

		api.Route("/analytics", func(an chi.Router) {
			an.Use(anyRole)
			an.Get("/funnel", analyticsHandler.GetFunnel)
			an.Get("/team-performance", analyticsHandler.GetTeamPerformance)
			an.Get("/summary", analyticsHandler.GetSummary)
		})
	}

	r.Route("/api", registerRoutes)
	r.Route("/api/v1", registerRoutes)

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: r,
	}

	go func() {
		logger.Info("server started", slog.String("addr", cfg.ServerAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
}
