package app

import (
	"context"
	"database/sql"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"voltbook/internal/config"
	httpserver "voltbook/internal/http"
	"voltbook/internal/http/handlers"
	"voltbook/internal/http/middleware"
	"voltbook/internal/password"
	redisstore "voltbook/internal/redis"
	"voltbook/internal/repository"
	"voltbook/internal/service"
	libdb "voltbook/libs/db"
	libredis "voltbook/libs/redis"
)

// App wires voltbook dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph. Redis is optional: an empty addr
// disables the active-booking cache.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := libdb.NewPostgresDB(cfg.Database.DSN, libdb.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		return nil, err
	}

	if err := repository.Migrate(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}

	var (
		redisClient *redis.Client
		activeStore *redisstore.Store
	)
	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		redisClient, err = libredis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		activeStore = redisstore.NewStore(redisClient, cfg.ActiveBookingTTL())
	} else {
		logger.Warn("redis addr not set, active-booking cache disabled")
	}

	userRepo := repository.NewUserRepository(sqlDB)
	stationRepo := repository.NewStationRepository(sqlDB)
	bookingRepo := repository.NewBookingRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	walletRepo := repository.NewWalletRepository(sqlDB)

	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.TokenTTL())

	authService := service.NewAuthService(userRepo, walletRepo, hasher, tokens, logger)
	stationService := service.NewStationService(stationRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, stationRepo, userRepo, activeStore, logger)
	vehicleService := service.NewVehicleService(vehicleRepo, logger)
	walletService := service.NewWalletService(walletRepo, logger)

	deps := httpserver.RouterDeps{
		Auth:     handlers.NewAuthHandlers(authService),
		Stations: handlers.NewStationHandlers(stationService),
		Bookings: handlers.NewBookingHandlers(bookingService),
		Vehicles: handlers.NewVehicleHandlers(vehicleService),
		Wallet:   handlers.NewWalletHandlers(walletService),
		Health:   handlers.NewHealthHandler(sqlDB),
	}

	router := httpserver.NewRouter(deps, middleware.Auth(tokens))
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts the HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
