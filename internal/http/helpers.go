package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"roundup/internal/controller"
	"roundup/internal/core"
)

type weekDTO struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type moneyDTO struct {
	Currency   string `json:"currency"`
	MinorUnits int64  `json:"minorUnits"`
	Display    string `json:"display"`
}

type transactionDTO struct {
	UID          string   `json:"uid"`
	Amount       moneyDTO `json:"amount"`
	Direction    string   `json:"direction"`
	Time         string   `json:"time"`
	CounterParty string   `json:"counterParty"`
}

type weekResponse struct {
	Week              weekDTO                     `json:"week"`
	TransactionsByDay map[string][]transactionDTO `json:"transactionsByDay"`
	RoundUpAmount     *moneyDTO                   `json:"roundUpAmount,omitempty"`
}

type roundUpResponse struct {
	Deposited    *moneyDTO `json:"deposited,omitempty"`
	Notification string    `json:"notification"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newWeekDTO(index int, w core.WeekWindow) weekDTO {
	return weekDTO{
		Index: index,
		Start: w.Start.UTC().Format(time.RFC3339),
		End:   w.End.UTC().Format(time.RFC3339),
	}
}

func newMoneyDTO(m core.Money) moneyDTO {
	return moneyDTO{
		Currency:   m.Currency,
		MinorUnits: m.MinorUnits,
		Display:    m.String(),
	}
}

func newTransactionDTO(tx core.Transaction) transactionDTO {
	return transactionDTO{
		UID:          tx.UID,
		Amount:       newMoneyDTO(tx.Amount),
		Direction:    string(tx.Direction),
		Time:         tx.Time.UTC().Format(time.RFC3339),
		CounterParty: tx.CounterParty,
	}
}

func newWeekResponse(index int, state controller.ViewState) weekResponse {
	resp := weekResponse{
		TransactionsByDay: map[string][]transactionDTO{},
	}
	if state.SelectedWeek != nil {
		resp.Week = newWeekDTO(index, *state.SelectedWeek)
	}
	for day, txs := range state.TransactionsByDay {
		dtos := make([]transactionDTO, len(txs))
		for i, tx := range txs {
			dtos[i] = newTransactionDTO(tx)
		}
		resp.TransactionsByDay[day] = dtos
	}
	if state.RoundUpAmount != nil {
		dto := newMoneyDTO(*state.RoundUpAmount)
		resp.RoundUpAmount = &dto
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
