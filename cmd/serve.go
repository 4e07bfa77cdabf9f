package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"udinder-backend/internal/config"
	"udinder-backend/internal/handlers"
	"udinder-backend/internal/middleware"
	"udinder-backend/internal/push"
	"udinder-backend/internal/ratelimit"
	"udinder-backend/internal/repository"
	"udinder-backend/internal/services"
	"udinder-backend/internal/web"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and WebSocket hub",
	Run: func(cmd *cobra.Command, args []string) {
		runServer(loadConfig())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(cfg *config.Config) {
	ctx := context.Background()

	// Connect to database
	db, err := repository.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Connect to redis
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to ping redis")
	}
	log.Info().Msg("Redis connection established")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	limiter := ratelimit.NewLimiter(ratelimit.NewRedisStore(rdb), map[ratelimit.Action]ratelimit.Limits{
		ratelimit.ActionLike: {
			Per10Sec:  cfg.Limits.LikesPer10Sec,
			PerMinute: cfg.Limits.LikesPerMinute,
		},
		ratelimit.ActionMessage: {
			Per10Sec:  cfg.Limits.MessagesPer10Sec,
			PerMinute: cfg.Limits.MessagesPerMinute,
		},
	})

	var photos services.PhotoStore
	if cfg.AWS.S3Bucket != "" {
		store, err := services.NewS3PhotoStore(ctx, cfg.AWS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create photo store")
		}
		photos = store
	} else {
		log.Warn().Msg("aws.s3_bucket is not set, profile photos are disabled")
	}

	var notifier push.Notifier = push.Noop{}
	if cfg.APNS.Enabled() {
		apns, err := push.NewAPNs(cfg.APNS)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create APNs client")
		}
		notifier = apns
		log.Info().Bool("production", cfg.APNS.Production).Msg("APNs push enabled")
	}

	// Initialize services
	hub := services.NewHub()
	dispatcher := services.NewDispatcher(hub, userRepo, notifier)

	authService := services.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL())
	profileService := services.NewProfileService(profileRepo, userRepo, photos)
	interactionService := services.NewInteractionService(userRepo, likeRepo, matchRepo, limiter, dispatcher)
	messageService := services.NewMessageService(messageRepo, matchRepo, limiter, dispatcher)
	adminService := services.NewAdminService(adminRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(profileService)
	interactionHandler := handlers.NewInteractionHandler(interactionService)
	messageHandler := handlers.NewMessageHandler(messageService)
	adminHandler := handlers.NewAdminHandler(adminService)
	statusHandler := handlers.NewStatusHandler(adminService, hub)
	limitsHandler := handlers.NewLimitsHandler(limiter)
	wsHandler := handlers.NewWebSocketHandler(hub, authService, interactionService, messageService)

	r := newRouter(routes{
		auth:       authService,
		admins:     adminService,
		authH:      authHandler,
		profileH:   profileHandler,
		interactH:  interactionHandler,
		messageH:   messageHandler,
		adminH:     adminHandler,
		statusH:    statusHandler,
		limitsH:    limitsHandler,
		websocketH: wsHandler,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Hijacked WebSocket connections are not closed by Shutdown
	hub.CloseAll()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

type routes struct {
	auth       middleware.TokenValidator
	admins     middleware.AdminChecker
	authH      *handlers.AuthHandler
	profileH   *handlers.ProfileHandler
	interactH  *handlers.InteractionHandler
	messageH   *handlers.MessageHandler
	adminH     *handlers.AdminHandler
	statusH    *handlers.StatusHandler
	limitsH    *handlers.LimitsHandler
	websocketH *handlers.WebSocketHandler
}

func newRouter(rt routes) chi.Router {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/api/endpoint", rt.statusH.Status)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", rt.authH.Register)
		r.Post("/auth/login", rt.authH.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.auth))

			r.Get("/profile", rt.profileH.GetMe)
			r.Put("/profile", rt.profileH.Update)
			r.Post("/profile/photo", rt.profileH.UploadPhoto)
			r.Put("/users/me", rt.profileH.UpdateAttributes)
			r.Put("/users/me/push-token", rt.profileH.SetPushToken)
			r.Get("/users/{user_id}/profile", rt.profileH.GetByUser)

			r.Get("/candidates", rt.interactH.Candidates)
			r.Post("/likes", rt.interactH.Like)
			r.Delete("/likes/{user_id}", rt.interactH.Unlike)
			r.Get("/matches", rt.interactH.Matches)
			r.Delete("/matches/{match_id}", rt.interactH.Unmatch)

			r.Get("/limits", rt.limitsH.Get)

			r.Post("/messages", rt.messageH.Send)
			r.Get("/messages/{user_id}", rt.messageH.Conversation)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(rt.admins))
				r.Get("/users", rt.adminH.ListUsers)
				r.Delete("/users/{user_id}", rt.adminH.DeleteUser)
				r.Post("/admins/{user_id}", rt.adminH.Grant)
				r.Post("/admins/{user_id}/block", rt.adminH.Block)
				r.Post("/admins/{user_id}/unblock", rt.adminH.Unblock)
				r.Get("/stats", rt.adminH.Stats)
			})
		})
	})

	// WebSocket route
	r.Get("/ws", rt.websocketH.HandleWebSocket)

	// Page navigation and static documents
	r.Get("/go/admin", web.GoAdmin)
	r.Get("/go/user", web.GoUser)
	r.Handle("/*", web.Static())

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
