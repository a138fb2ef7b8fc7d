package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// handleChat forwards one message to the assistant and returns its reply.
// Upstream failures surface as the user-visible error string.
func (a *App) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	text, err := a.gemini.SendMessage(ctx, req.Message)
	if err != nil {
		a.log.Errorw("assistant call failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, chatResp{Response: text})
}
