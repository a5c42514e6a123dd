package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/bot"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/config"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/logger"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/repository"
	"github.com/Dagmawialebachew/DigitalRevenueHilawe/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer log.Sync()

	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database open failed", zap.Error(err))
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	users := repository.NewGormUserRepository(db)
	products := repository.NewGormProductRepository(db)
	payments := repository.NewGormPaymentRepository(db)

	ledger := service.NewPaymentLedger(payments, products, log)
	matcher := service.NewProductMatcher(products)
	stats := service.NewStatsCache(payments, 30*time.Second, log)

	b, err := bot.NewBot(cfg, log, ledger, matcher, stats, users, products, payments)
	if err != nil {
		log.Fatal("bot init failed", zap.Error(err))
	}

	errCh := make(chan error, 1)
	var srv *http.Server

	if cfg.WebhookBaseURL != "" {
		if err := b.RegisterWebhook(cfg.WebhookBaseURL); err != nil {
			log.Fatal("webhook registration failed", zap.Error(err))
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/webhook", func(w http.ResponseWriter, r *http.Request) {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			if err := b.HandleWebhook(body); err != nil {
				log.Warn("webhook update rejected", zap.Error(err))
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})

		srv = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("webhook server listening", zap.Int("port", cfg.Port))
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	} else {
		go func() {
			errCh <- b.Start()
		}()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("bot stopped", zap.Error(err))
		}
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Warn("server shutdown failed", zap.Error(err))
		}
	}
	b.Stop()
	if err := repository.Close(db); err != nil {
		log.Warn("database close failed", zap.Error(err))
	}
}
