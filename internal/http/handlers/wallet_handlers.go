package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"voltbook/internal/http/middleware"
	"voltbook/internal/models"
	"voltbook/internal/service"
)

// WalletHandlers serves the caller's wallet endpoints.
type WalletHandlers struct {
	wallet *service.WalletService
}

// NewWalletHandlers builds handlers.
func NewWalletHandlers(wallet *service.WalletService) *WalletHandlers {
	return &WalletHandlers{wallet: wallet}
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

type walletResponse struct {
	Wallet      *models.Wallet            `json:"wallet"`
	Transaction *models.WalletTransaction `json:"transaction"`
}

// Deposit handles POST /wallet/deposit.
func (h *WalletHandlers) Deposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	wallet, tx, err := h.wallet.Deposit(r.Context(), userID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{Wallet: wallet, Transaction: tx})
}

// Withdraw handles POST /wallet/withdraw.
func (h *WalletHandlers) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	wallet, tx, err := h.wallet.Withdraw(r.Context(), userID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, walletResponse{Wallet: wallet, Transaction: tx})
}

// Balance handles GET /wallet/balance.
func (h *WalletHandlers) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	balance, err := h.wallet.Balance(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{"balance": balance})
}

// Transactions handles GET /wallet/transactions?limit=.
func (h *WalletHandlers) Transactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	txs, err := h.wallet.Transactions(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if txs == nil {
		txs = []models.WalletTransaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// CheckBalance handles GET /wallet/check?amount=.
func (h *WalletHandlers) CheckBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a number")
		return
	}

	check, err := h.wallet.CheckBalance(r.Context(), userID, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}
