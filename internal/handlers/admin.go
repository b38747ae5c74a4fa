package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bizos/internal/services"
	"bizos/internal/store"
	"bizos/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type createQuestRequest struct {
	TenantID    string `json:"tenant_id"`
	Code        string `json:"code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Reward      int64  `json:"reward"`
	Period      string `json:"period"`
}

func (h *Handler) CreateQuest(w http.ResponseWriter, r *http.Request) {
	var req createQuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateTenantID(req.TenantID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateQuestCode(req.Code); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validator.ValidateQuestPeriod(req.Period); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Reward <= 0 {
		respondError(w, http.StatusBadRequest, "reward must be positive")
		return
	}
	questID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.quests.Create(r.Context(), tx, store.QuestInput{
			ID:          questID,
			TenantID:    req.TenantID,
			Code:        req.Code,
			Title:       req.Title,
			Description: req.Description,
			Reward:      req.Reward,
			Period:      req.Period,
			Active:      true,
		})
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			respondError(w, http.StatusConflict, "quest code already exists")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to create quest")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": questID})
}

type completeQuestRequest struct {
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
}

func (h *Handler) CompleteQuest(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	var req completeQuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TenantID == "" || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "tenant_id and user_id are required")
		return
	}
	result, err := h.service.CompleteQuest(r.Context(), req.TenantID, req.UserID, code)
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "quest completion failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entry_id": result.EntryID,
		"delta":    result.Delta,
		"balance":  result.Balance,
	})
}

type createRewardRequest struct {
	TenantID    string  `json:"tenant_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Sponsor     string  `json:"sponsor"`
	PointsCost  int64   `json:"points_cost"`
	Stock       int64   `json:"stock"`
	FaceValue   *string `json:"face_value"`
	TermsURL    string  `json:"terms_url"`
}

func (h *Handler) CreateReward(w http.ResponseWriter, r *http.Request) {
	var req createRewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateTenantID(req.TenantID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.PointsCost <= 0 {
		respondError(w, http.StatusBadRequest, "points_cost must be positive")
		return
	}
	if req.Stock < 0 {
		respondError(w, http.StatusBadRequest, "stock cannot be negative")
		return
	}
	// face_value is the sponsor-facing monetary worth of the reward,
	// stored normalized to two decimal places.
	var faceValue *string
	if req.FaceValue != nil && *req.FaceValue != "" {
		value, err := decimal.NewFromString(*req.FaceValue)
		if err != nil || value.IsNegative() {
			respondError(w, http.StatusBadRequest, "face_value must be a non-negative decimal")
			return
		}
		normalized := value.StringFixedBank(2)
		faceValue = &normalized
	}
	rewardID := uuid.NewString()
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.rewards.Create(r.Context(), tx, store.RewardInput{
			ID:          rewardID,
			TenantID:    req.TenantID,
			Name:        req.Name,
			Description: req.Description,
			Sponsor:     req.Sponsor,
			PointsCost:  req.PointsCost,
			Stock:       req.Stock,
			FaceValue:   faceValue,
			TermsURL:    req.TermsURL,
		})
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create reward")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": rewardID})
}

type tokenOpRequest struct {
	TenantID string  `json:"tenant_id"`
	UserID   string  `json:"user_id"`
	Amount   int64   `json:"amount"`
	Reason   string  `json:"reason"`
	RefID    *string `json:"ref_id"`
}

func (h *Handler) MintTokens(w http.ResponseWriter, r *http.Request) {
	var req tokenOpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TenantID == "" || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "tenant_id and user_id are required")
		return
	}
	result, err := h.service.Mint(r.Context(), services.MintRequest{
		TenantID: req.TenantID,
		UserID:   req.UserID,
		Amount:   req.Amount,
		Reason:   req.Reason,
		RefID:    req.RefID,
	})
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "mint failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entry_id": result.EntryID,
		"delta":    result.Delta,
		"balance":  result.Balance,
	})
}

func (h *Handler) BurnTokens(w http.ResponseWriter, r *http.Request) {
	var req tokenOpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TenantID == "" || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "tenant_id and user_id are required")
		return
	}
	result, err := h.service.Burn(r.Context(), services.BurnRequest{
		TenantID: req.TenantID,
		UserID:   req.UserID,
		Amount:   req.Amount,
		Reason:   req.Reason,
		RefID:    req.RefID,
	})
	if err != nil {
		if respondDomainError(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "burn failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"entry_id": result.EntryID,
		"delta":    result.Delta,
		"balance":  result.Balance,
	})
}

type updateRedemptionRequest struct {
	TenantID string `json:"tenant_id"`
	Status   string `json:"status"`
}

func (h *Handler) UpdateRedemptionStatus(w http.ResponseWriter, r *http.Request) {
	redemptionID := chi.URLParam(r, "id")
	actorID, _, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req updateRedemptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.TenantID == "" {
		respondError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}
	if err := h.service.UpdateRedemptionStatus(r.Context(), req.TenantID, actorID, redemptionID, req.Status); err != nil {
		if respondDomainError(w, err) {
			return
		}
		respondError(w, http.StatusInternalServerError, "status update failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":     redemptionID,
		"status": req.Status,
	})
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := parseInt(query.Get("page"), 1)
	limit := parseInt(query.Get("limit"), 50)
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit
	logs, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}
