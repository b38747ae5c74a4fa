package handlers

import "net/http"

func (h *Handler) ListQuests(w http.ResponseWriter, r *http.Request) {
	_, tenantID, ok := identity(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	quests, err := h.quests.ListActive(r.Context(), tenantID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load quests")
		return
	}
	normalized := make([]map[string]any, 0, len(quests))
	for _, quest := range quests {
		normalized = append(normalized, map[string]any{
			"id":          quest.ID,
			"code":        quest.Code,
			"title":       quest.Title,
			"description": quest.Description,
			"reward":      quest.Reward,
			"period":      quest.Period,
		})
	}
	respondJSON(w, http.StatusOK, normalized)
}
