package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/ledger-api/internal/api/shared"
	"github.com/phrazzld/ledger-api/internal/service"
)

// LedgerHandler handles the ledger API requests: user creation, balance
// credits, card registration, friendships, payments and feeds.
type LedgerHandler struct {
	ledger    *service.LedgerService
	validator *validator.Validate
	logger    *slog.Logger
}

// NewLedgerHandler creates a new LedgerHandler with the given dependencies.
func NewLedgerHandler(ledger *service.LedgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{
		ledger:    ledger,
		validator: validator.New(),
		logger:    logger.With("component", "ledger_handler"),
	}
}

// CreateUser handles POST /api/users.
func (h *LedgerHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.ledger.CreateUser(r.Context(), req.Username, req.InitialBalance, req.CardNumber)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewUserResponse(user))
}

// ListUsers handles GET /api/users.
func (h *LedgerHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.ledger.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, NewUserResponse(user))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetUser handles GET /api/users/{username}.
func (h *LedgerHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.ledger.GetUser(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// CreditBalance handles POST /api/users/{username}/balance.
func (h *LedgerHandler) CreditBalance(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req CreditBalanceRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	balance, err := h.ledger.AddToBalance(r.Context(), username, req.Amount)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BalanceResponse{
		Username: username,
		Balance:  balance.StringFixed(2),
	})
}

// RegisterCard handles POST /api/users/{username}/card.
func (h *LedgerHandler) RegisterCard(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req RegisterCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.ledger.AddCreditCard(r.Context(), username, req.CardNumber); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.ledger.GetUser(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// AddFriend handles POST /api/users/{username}/friends.
func (h *LedgerHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req AddFriendRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.ledger.AddFriend(r.Context(), username, req.Friend); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.ledger.GetUser(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewUserResponse(user))
}

// GetUserFeed handles GET /api/users/{username}/feed.
func (h *LedgerHandler) GetUserFeed(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	lines, err := h.ledger.UserFeed(r.Context(), username)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FeedResponse{Lines: lines})
}

// CreatePayment handles POST /api/payments.
func (h *LedgerHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	payment, err := h.ledger.Pay(r.Context(), req.Payer, req.Payee, req.Amount, req.Note)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewPaymentResponse(payment))
}

// GetFeed handles GET /api/feed, returning the rendered global feed.
func (h *LedgerHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	entries := h.ledger.GlobalFeed(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, FeedResponse{
		Lines: service.RenderFeed(entries),
	})
}
