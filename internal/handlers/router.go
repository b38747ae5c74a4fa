package handlers

import (
	"net/http"

	"bizos/internal/config"
	"bizos/internal/db"
	"bizos/internal/middleware"
	"bizos/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner    db.TxRunner
	cfg         config.Config
	users       UserStore
	wallets     WalletStore
	ledger      LedgerStore
	rewards     RewardStore
	redemptions RedemptionStore
	quests      QuestStore
	admin       AdminStore
	audit       AuditStore
	service     TokenService
	hub         *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, wallets WalletStore, ledger LedgerStore, rewards RewardStore, redemptions RedemptionStore, quests QuestStore, admin AdminStore, audit AuditStore, service TokenService, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:    txRunner,
		cfg:         cfg,
		users:       users,
		wallets:     wallets,
		ledger:      ledger,
		rewards:     rewards,
		redemptions: redemptions,
		quests:      quests,
		admin:       admin,
		audit:       audit,
		service:     service,
		hub:         hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.Group(func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/wallet/balance", h.GetBalance)
		r.Get("/wallet/ledger", h.ListLedger)
		r.Get("/wallet/self-check", h.SelfCheck)
		r.Get("/quests", h.ListQuests)
		r.Get("/rewards/catalog", h.ListRewards)
		r.Post("/rewards/redeem", h.RedeemReward)
		r.Get("/rewards/redemptions", h.ListRedemptions)
	})
	router.Get("/ws/wallet", h.WSWallet)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireAdmin(h.admin))
		r.Post("/quests", h.CreateQuest)
		r.Post("/quests/{code}/complete", h.CompleteQuest)
		r.Post("/rewards", h.CreateReward)
		r.Post("/tokens/mint", h.MintTokens)
		r.Post("/tokens/burn", h.BurnTokens)
		r.Post("/redemptions/{id}/status", h.UpdateRedemptionStatus)
		r.Get("/audit", h.ListAuditLogs)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
