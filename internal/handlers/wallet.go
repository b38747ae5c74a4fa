package handlers

import (
	"net/http"
	"strconv"

	"bizos/internal/auth"
	"bizos/internal/middleware"
	"bizos/internal/websocket"
)

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	balance, err := h.service.GetBalance(r.Context(), tenantID, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load balance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"tenant_id": tenantID,
		"user_id":   userID,
		"balance":   balance,
	})
}

func (h *Handler) ListLedger(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 20)
	offset := (page - 1) * limit
	entries, err := h.ledger.ListByUser(r.Context(), tenantID, userID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load ledger")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// SelfCheck exposes the wallet/ledger reconciliation for the caller's
// tenant; any non-zero difference is an invariant violation worth paging
// over.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rows, err := h.wallets.Reconcile(r.Context(), tenantID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to self_check")
		return
	}
	response := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		response = append(response, map[string]any{
			"wallet_id":      row.WalletID,
			"user_id":        row.UserID,
			"stored_balance": row.StoredBalance,
			"ledger_sum":     row.LedgerSum,
			"difference":     row.Difference,
		})
	}
	respondJSON(w, http.StatusOK, response)
}

// WSWallet authenticates via a token query parameter because browsers
// cannot set headers on websocket upgrades.
func (h *Handler) WSWallet(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	claims, err := auth.ParseToken(h.cfg.JWTSecret, raw)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}

func identity(r *http.Request) (userID, tenantID string, ok bool) {
	userID, ok = middleware.UserIDFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	tenantID, ok = middleware.TenantIDFromContext(r.Context())
	if !ok {
		return "", "", false
	}
	return userID, tenantID, true
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
