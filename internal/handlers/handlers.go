package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bizos/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondDomainError maps token/reward domain failures to client-facing
// responses carrying enough context to explain the rejection. Returns
// false when err is not a domain failure and the caller should treat it
// as a server fault.
func respondDomainError(w http.ResponseWriter, err error) bool {
	var insufficient *services.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		respondJSON(w, http.StatusConflict, map[string]any{
			"error":     "insufficient_balance",
			"balance":   insufficient.Balance,
			"requested": insufficient.Requested,
		})
		return true
	}
	var limit *services.DailyLimitError
	if errors.As(err, &limit) {
		code := "mint_limit_exceeded"
		if limit.Op == services.LimitOpRedeem {
			code = "redeem_limit_exceeded"
		}
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"error": code,
			"limit": limit.Limit,
			"used":  limit.Used,
		})
		return true
	}
	switch {
	case errors.Is(err, services.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount")
	case errors.Is(err, services.ErrRewardNotFound):
		respondError(w, http.StatusNotFound, "reward_not_found")
	case errors.Is(err, services.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock")
	case errors.Is(err, services.ErrQuestNotFound):
		respondError(w, http.StatusNotFound, "quest_not_found")
	case errors.Is(err, services.ErrRedemptionNotFound):
		respondError(w, http.StatusNotFound, "redemption_not_found")
	case errors.Is(err, services.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_status_transition")
	default:
		return false
	}
	return true
}
