package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lorryledger/config"
	"lorryledger/db"
	"lorryledger/db/mongo"
	"lorryledger/db/postgres"
	"lorryledger/handlers"
	"lorryledger/repository"
	"lorryledger/routes"
	"lorryledger/services"
)

// stores is every repository the services need, whichever backend serves them.
type stores struct {
	shipments repository.ShipmentRepository
	invoices  repository.InvoiceRepository
	parties   repository.PartyRepository
	vehicles  repository.VehicleRepository
	company   repository.CompanyRepository
	sequences repository.SequenceRepository
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (stores, db.DB, error) {
	switch cfg.DBType {
	case config.DBPostgres:
		if err := db.RunMigrations(cfg.PostgresURL, cfg.MigrationsPath, logger); err != nil {
			return stores{}, nil, err
		}
		pg := postgres.NewPostgresDB(cfg.PostgresURL)
		if err := pg.Connect(ctx); err != nil {
			return stores{}, nil, err
		}
		return stores{
			shipments: repository.NewPostgresShipmentRepo(pg.Conn),
			invoices:  repository.NewPostgresInvoiceRepo(pg.Conn),
			parties:   repository.NewPostgresPartyRepo(pg.Conn),
			vehicles:  repository.NewPostgresVehicleRepo(pg.Conn),
			company:   repository.NewPostgresCompanyRepo(pg.Conn),
			sequences: repository.NewPostgresSequenceRepo(pg.Conn),
		}, pg, nil

	case config.DBMongo:
		mg := mongo.NewMongoDB(cfg.MongoURL, cfg.MongoDatabase)
		if err := mg.Connect(ctx); err != nil {
			return stores{}, nil, err
		}
		if err := mg.EnsureIndexes(ctx); err != nil {
			_ = mg.Disconnect(ctx)
			return stores{}, nil, err
		}
		database := mg.Database()
		return stores{
			shipments: repository.NewMongoShipmentRepo(database),
			invoices:  repository.NewMongoInvoiceRepo(database),
			parties:   repository.NewMongoPartyRepo(database),
			vehicles:  repository.NewMongoVehicleRepo(database),
			company:   repository.NewMongoCompanyRepo(database),
			sequences: repository.NewMongoSequenceRepo(database),
		}, mg, nil
	}

	logger.Warn("using in-memory store; data is lost on exit")
	mem := repository.NewMemoryStore()
	return stores{
		shipments: mem,
		invoices:  mem,
		parties:   mem,
		vehicles:  mem,
		company:   mem,
		sequences: mem,
	}, nil, nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	st, conn, err := openStores(connectCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Fatal("could not open store", zap.String("db_type", cfg.DBType), zap.Error(err))
	}
	if conn != nil {
		defer func() {
			if err := conn.Disconnect(context.Background()); err != nil {
				logger.Warn("disconnect failed", zap.Error(err))
			}
		}()
	}

	// Redis takes over LR numbering when configured; invoice numbers are
	// always drawn inside the invoice commit.
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("could not reach redis", zap.Error(err))
		}
		st.sequences = repository.NewRedisSequenceRepo(rdb)
	}

	numbers := services.NewNumberer(st.sequences)
	shipmentService := services.NewShipmentService(st.shipments, st.vehicles, numbers, logger)
	invoiceService := services.NewInvoiceService(st.shipments, st.invoices, st.parties, st.company, logger)

	router := routes.SetupRoutes(
		logger,
		&handlers.ShipmentHandler{Service: shipmentService, Shipments: st.shipments, PageSize: cfg.PageSize, Logger: logger},
		&handlers.InvoiceHandler{Service: invoiceService, Logger: logger},
		&handlers.CompanyHandler{Repo: st.company, Logger: logger},
		&handlers.LedgerHandler{Parties: st.parties, Vehicles: st.vehicles, Logger: logger},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("server running", zap.String("port", cfg.Port), zap.String("db_type", cfg.DBType))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
