package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"peakgear/middleware"
	"peakgear/models"
	"peakgear/store"
)

// WaiverController handles liability-waiver signing and checks
type WaiverController struct {
	Store store.Storage
}

// NewWaiverController creates a new WaiverController
func NewWaiverController(st store.Storage) *WaiverController {
	return &WaiverController{Store: st}
}

// Sign records a signed waiver for the authenticated user. Signing twice
// is an upsert, so one user can never hold more than one waiver.
func (wc *WaiverController) Sign(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		WaiverContent string `json:"waiverContent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WaiverContent == "" {
		writeError(w, http.StatusBadRequest, "waiverContent is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	waiver := &models.Waiver{
		ID:            uuid.NewString(),
		UserID:        user.ID,
		IPAddress:     clientIP(r),
		SignedAt:      time.Now().UTC(),
		WaiverContent: req.WaiverContent,
	}
	saved, err := wc.Store.UpsertWaiver(ctx, waiver)
	if err != nil {
		slog.Error("waiver signing failed", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to sign waiver")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// Check reports whether the authenticated user has a waiver on file
func (wc *WaiverController) Check(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	_, err := wc.Store.GetWaiverByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]bool{"signed": false})
			return
		}
		slog.Error("waiver check failed", "user", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to check waiver status")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"signed": true})
}
