package handlers

import (
	"encoding/json"
	"net/http"

	"bizos/internal/services"
)

func (h *Handler) ListRewards(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rewards, err := h.rewards.ListAvailable(r.Context(), tenantID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load catalog")
		return
	}
	normalized := make([]map[string]any, 0, len(rewards))
	for _, reward := range rewards {
		normalized = append(normalized, map[string]any{
			"id":          reward.ID,
			"name":        reward.Name,
			"description": reward.Description,
			"sponsor":     reward.Sponsor,
			"points_cost": reward.PointsCost,
			"stock":       reward.Stock,
			"face_value":  reward.FaceValue,
			"terms_url":   reward.TermsURL,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}

type redeemRequest struct {
	RewardID string `json:"reward_id"`
}

func (h *Handler) RedeemReward(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.RewardID == "" {
		respondError(w, http.StatusBadRequest, "reward_id is required")
		return
	}
	result, err := h.service.RedeemReward(r.Context(), services.RedeemRequest{
		TenantID: tenantID,
		UserID:   userID,
		RewardID: req.RewardID,
	})
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "redemption_failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{
		"redemption_id": result.RedemptionID,
		"reward_id":     result.RewardID,
		"reward_name":   result.RewardName,
		"points_spent":  result.PointsSpent,
		"balance":       result.Balance,
	})
}

func (h *Handler) ListRedemptions(w http.ResponseWriter, r *http.Request) {
	userID, tenantID, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 50)
	if limit > 50 {
		limit = 50
	}
	redemptions, err := h.redemptions.ListByUser(r.Context(), tenantID, userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load redemptions")
		return
	}
	respondJSON(w, http.StatusOK, redemptions)
}
