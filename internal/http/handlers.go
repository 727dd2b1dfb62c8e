package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"roundup/internal/core"
	applog "roundup/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"uptime": time.Since(s.uptime).String(),
	})
}

// handleReady reports whether the bank gateway is reachable and a
// primary account exists. Load balancers use this to gate traffic.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.readyCheck(r.Context()); err != nil {
		applog.FromContext(r.Context()).WarnContext(r.Context(), "readiness check failed", applog.FieldError, err.Error())
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unavailable",
			"reason": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

func (s *Server) handleWeeks(w http.ResponseWriter, r *http.Request) {
	state := s.ctrl.State()
	weeks := make([]weekDTO, len(state.Weeks))
	for i, week := range state.Weeks {
		weeks[i] = newWeekDTO(i, week)
	}
	writeJSON(w, http.StatusOK, map[string]any{"weeks": weeks})
}

func (s *Server) handleWeekTransactions(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "week index must be an integer")
		return
	}
	if index < 0 || index >= len(s.ctrl.State().Weeks) {
		writeError(w, http.StatusNotFound, "week index out of range")
		return
	}

	key := strconv.Itoa(index)
	if cached, ok := s.weekCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	state, err := s.ctrl.SelectWeek(r.Context(), index)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "week selection failed",
			applog.FieldError, err.Error(), applog.FieldWeekIndex, index)
		writeError(w, gatewayStatus(err), "could not fetch transactions")
		return
	}

	resp := newWeekResponse(index, state)
	s.weekCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoundUp(w http.ResponseWriter, r *http.Request) {
	state, acted, err := s.ctrl.PerformRoundUp(r.Context())
	if !acted {
		writeError(w, http.StatusConflict, "no round-up amount available for the selected week")
		return
	}
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "round-up failed",
			applog.FieldError, err.Error())
		writeJSON(w, gatewayStatus(err), roundUpResponse{
			Notification: string(state.Notification),
		})
		return
	}

	resp := roundUpResponse{Notification: string(state.Notification)}
	if state.RoundUpAmount != nil {
		dto := newMoneyDTO(*state.RoundUpAmount)
		resp.Deposited = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// gatewayStatus maps upstream failures onto HTTP status codes.
func gatewayStatus(err error) int {
	var gw *core.GatewayError
	switch {
	case errors.As(err, &gw),
		errors.Is(err, core.ErrNoPrimaryAccount),
		errors.Is(err, core.ErrGoalCreation),
		errors.Is(err, core.ErrTopUpFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
