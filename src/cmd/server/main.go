package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/api-sage/account-balance-service/src/internal/adapter/http/controller"
	"github.com/api-sage/account-balance-service/src/internal/adapter/http/middleware"
	"github.com/api-sage/account-balance-service/src/internal/adapter/http/router"
	"github.com/api-sage/account-balance-service/src/internal/adapter/repository/implementations"
	"github.com/api-sage/account-balance-service/src/internal/adapter/repository/memory"
	"github.com/api-sage/account-balance-service/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/account-balance-service/src/internal/cache"
	"github.com/api-sage/account-balance-service/src/internal/config"
	"github.com/api-sage/account-balance-service/src/internal/domain"
	"github.com/api-sage/account-balance-service/src/internal/lock"
	"github.com/api-sage/account-balance-service/src/internal/logger"
	"github.com/api-sage/account-balance-service/src/internal/metrics"
	"github.com/api-sage/account-balance-service/src/internal/telemetry"
	"github.com/api-sage/account-balance-service/src/internal/usecase/services"
)

type repositories struct {
	accounts     repo_interfaces.AccountRepository
	users        repo_interfaces.UserRepository
	transactions repo_interfaces.TransactionRepository
	ledger       repo_interfaces.BalanceLedger
	closeFn      func() error
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("account balance service: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	shutdownTracing, err := telemetry.Setup(cfg.TracingStdout, os.Stdout)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.closeFn(); err != nil {
			logger.Error("close storage failed", err, nil)
		}
	}()

	lockStore, closeLockStore, err := openLockStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLockStore(); err != nil {
			logger.Error("close lock store failed", err, nil)
		}
	}()

	lockManager := lock.NewManager(lockStore, lock.Options{
		KeyPrefix:     cfg.LockKeyPrefix,
		WaitTimeout:   cfg.LockWaitTimeout,
		LeaseTime:     cfg.LockLeaseTime,
		RetryInterval: cfg.LockRetryInterval,
	})

	transactionCache, err := cache.NewTransactionCache(cfg.TransactionCacheTTL)
	if err != nil {
		return err
	}
	defer transactionCache.Close()

	transactionService := services.NewLockedTransactionService(
		services.NewTransactionService(repos.transactions, repos.accounts, repos.ledger, repos.users, transactionCache),
		lockManager,
	)
	accountService := services.NewLockedAccountService(
		services.NewAccountService(repos.accounts, repos.users),
		lockManager,
	)

	registry := metrics.NewRegistry()
	metrics.RegisterCoreMetrics(registry)

	mux := router.New(
		controller.NewTransactionController(transactionService),
		controller.NewAccountController(accountService),
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		middleware.Recover,
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", logger.Fields{
			"addr":          cfg.HTTPAddr,
			"storageDriver": cfg.StorageDriver,
			"lockBackend":   cfg.LockBackend,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("http server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("http server stopped", nil)
	return nil
}

func openRepositories(ctx context.Context, cfg config.Config) (repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		users := memory.NewUserRepository()
		for _, name := range []string{"Pobi", "Teddy", "Crong"} {
			if _, err := users.Create(ctx, domain.User{Name: name}); err != nil {
				return repositories{}, fmt.Errorf("seed memory users: %w", err)
			}
		}

		accounts := memory.NewAccountRepository()
		transactions := memory.NewTransactionRepository()
		return repositories{
			accounts:     accounts,
			users:        users,
			transactions: transactions,
			ledger:       memory.NewBalanceLedger(accounts, transactions),
			closeFn:      func() error { return nil },
		}, nil
	}

	db, err := implementations.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return repositories{}, err
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	applied, err := implementations.RunMigrations(migrateCtx, db, cfg.MigrationsDir)
	if err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations completed", logger.Fields{
		"applied": applied,
	})

	return repositories{
		accounts:     implementations.NewAccountRepository(db),
		users:        implementations.NewUserRepository(db),
		transactions: implementations.NewTransactionRepository(db),
		ledger:       implementations.NewBalanceLedger(db),
		closeFn:      db.Close,
	}, nil
}

func openLockStore(ctx context.Context, cfg config.Config) (lock.Store, func() error, error) {
	if cfg.LockBackend == config.LockBackendMemory {
		return lock.NewMemoryStore(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	logger.Info("redis lock store connected", logger.Fields{
		"addr": cfg.RedisAddr,
		"db":   cfg.RedisDB,
	})

	return lock.NewRedisStore(client), client.Close, nil
}
