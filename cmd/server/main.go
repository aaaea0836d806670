package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/folio-labs/portfolio-server/internal/config"
	"github.com/folio-labs/portfolio-server/internal/database"
	"github.com/folio-labs/portfolio-server/internal/handler"
	"github.com/folio-labs/portfolio-server/internal/jobs"
	"github.com/folio-labs/portfolio-server/internal/logging"
	"github.com/folio-labs/portfolio-server/internal/mail"
	"github.com/folio-labs/portfolio-server/internal/redis"
	"github.com/folio-labs/portfolio-server/internal/repository"
	"github.com/folio-labs/portfolio-server/internal/repository/memory"
	"github.com/folio-labs/portfolio-server/internal/service"
	"github.com/folio-labs/portfolio-server/internal/session"
	"github.com/folio-labs/portfolio-server/internal/storage"
)

type repositories struct {
	admins  repository.AdminCredentialRepository
	posts   repository.PostRepository
	reviews repository.ReviewRepository
	media   repository.MediaRepository
	ping    func(ctx context.Context) error
	close   func() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup(logging.Config{Level: "info"})
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Setup(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := cfg.Validate(cfg.IsProduction()); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	repos, err := openRepositories(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open storage")
	}
	defer repos.close()

	var limiter service.RateLimiter
	if cfg.RedisURL != "" {
		redisClient, err := redis.NewClient(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected")
		limiter = service.NewRedisRateLimiter(redisClient.Client)
	} else {
		log.Info().Msg("REDIS_URL not set: using in-process rate limiting")
		limiter = service.NewLocalRateLimiter()
	}

	authority, err := session.NewAuthority(cfg.SigningSecrets(), session.WithTTL(cfg.SessionTTL()))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session authority")
	}

	credentials := service.NewCredentialStore(repos.admins)
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
		seeded, err := credentials.EnsureSeed(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed admin")
		}
		if seeded {
			log.Info().Str("email", cfg.AdminEmail).Msg("seeded admin account")
		}
	}

	blobs, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open upload storage")
	}

	var sender mail.Sender
	if cfg.MailEnabled() {
		sender = mail.NewResendSender(cfg.ResendAPIKey, cfg.ContactFromEmail, cfg.ContactToEmail)
	}

	policy := service.ReadPolicy{
		PublicReviews: cfg.PublicReviewReads,
		PublicMedia:   cfg.PublicMediaReads,
	}

	router := handler.NewRouter(handler.Dependencies{
		Admin:          service.NewAdminService(credentials, authority, repos.posts, repos.reviews, repos.media),
		Posts:          service.NewPostService(repos.posts),
		Reviews:        service.NewReviewService(repos.reviews, policy),
		Media:          service.NewMediaService(repos.media, blobs, policy, cfg.UploadMaxBytes),
		Contact:        service.NewContactService(sender),
		Authority:      authority,
		Limiter:        limiter,
		Uploads:        blobs.Handler(),
		Ping:           repos.ping,
		StaticDir:      cfg.StaticDir,
		AllowedOrigins: cfg.AllowedOrigins,
		IsProduction:   cfg.IsProduction(),
		MaxBodyBytes:   cfg.UploadMaxBytes + 8<<20,
	})

	sweepJob := jobs.NewBlobSweepJob(repos.media, blobs, config.BlobSweepInterval, cfg.BlobSweepGrace())
	sweepJob.Start()
	defer sweepJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Str("environment", cfg.Environment).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// openRepositories connects to Postgres and applies migrations, or falls back
// to an in-memory store when DATABASE_URL is empty.
func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set: using in-memory storage, data is lost on restart")
		db := memory.New()
		return &repositories{
			admins:  db.Admins(),
			posts:   db.Posts(),
			reviews: db.Reviews(),
			media:   db.Media(),
			close:   func() error { return nil },
		}, nil
	}

	db, err := database.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("database connected")

	applied, err := db.Migrate(context.Background(), database.Migrations())
	if err != nil {
		db.Close()
		return nil, err
	}
	if applied > 0 {
		log.Info().Int("count", applied).Msg("applied migrations")
	}

	return &repositories{
		admins:  repository.NewAdminCredentialRepository(db.DB),
		posts:   repository.NewPostRepository(db.DB),
		reviews: repository.NewReviewRepository(db.DB),
		media:   repository.NewMediaRepository(db.DB),
		ping: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, config.DBPingTimeout)
			defer cancel()
			return db.Ping(ctx)
		},
		close: db.Close,
	}, nil
}
