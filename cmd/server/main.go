package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bizos/internal/config"
	"bizos/internal/db"
	"bizos/internal/handlers"
	"bizos/internal/services"
	"bizos/internal/store"
	"bizos/internal/websocket"

	log "github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("failed to connect database")
	}
	defer database.Close()

	users := store.NewUserStore(database)
	wallets := store.NewWalletStore(database)
	ledger := store.NewLedgerStore(database)
	rewards := store.NewRewardStore(database)
	redemptions := store.NewRedemptionStore(database)
	quests := store.NewQuestStore(database)
	admin := store.NewAdminStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	service := services.NewTokenService(txRunner, wallets, ledger, rewards, redemptions, quests, audit, hub, services.Limits{
		MaxMintPerDay:   cfg.MaxMintPerDay,
		MaxRedeemPerDay: cfg.MaxRedeemPerDay,
	})

	handler := handlers.New(txRunner, cfg, users, wallets, ledger, rewards, redemptions, quests, admin, audit, service, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"addr":               server.Addr,
			"max_mint_per_day":   cfg.MaxMintPerDay,
			"max_redeem_per_day": cfg.MaxRedeemPerDay,
		}).Info("token ledger API listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Fatal("shutdown error")
	}
}
