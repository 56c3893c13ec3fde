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

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sheikh-saqib/cpf-bank-ledger/internal/config"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/events/logging"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/handler"
	interfaces "github.com/sheikh-saqib/cpf-bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/ledger"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/logger"
	"github.com/sheikh-saqib/cpf-bank-ledger/internal/storage/memory"
)

func main() {
	cfg := config.Load()

	lg, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer lg.Sync()

	if !cfg.DotEnvLoaded {
		lg.Info("no .env file found, relying on system env vars")
	}

	var store interfaces.AccountStore = memory.NewMemoryAccountStore()

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, lg)
		defer func() {
			if err := kp.Close(); err != nil {
				lg.Warn("failed to close kafka publisher", zap.Error(err))
			}
		}()
		publisher = kp
		lg.Info("publishing account events to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers),
			zap.String("topic", cfg.KafkaTopic))
	} else {
		publisher = logging.NewPublisher(lg)
	}

	bank := ledger.NewLedger(store, publisher, cfg.KafkaTopic, lg)
	h := handler.NewHandler(bank, cfg.CPFHeader, lg)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lg.Info("bank server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		lg.Error("server stopped with error", zap.Error(err))
	}
}
