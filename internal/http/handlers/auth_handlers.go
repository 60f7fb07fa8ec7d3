package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"voltbook/internal/http/middleware"
	"voltbook/internal/models"
	"voltbook/internal/service"
)

// AuthHandlers serves registration, login and profile endpoints.
type AuthHandlers struct {
	auth *service.AuthService
}

// NewAuthHandlers builds handlers.
func NewAuthHandlers(auth *service.AuthService) *AuthHandlers {
	return &AuthHandlers{auth: auth}
}

type userResponse struct {
	ID                int64  `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Mobile            string `json:"mobile,omitempty"`
	Pincode           string `json:"pincode,omitempty"`
	ProfileImage      string `json:"profile_image,omitempty"`
	Role              string `json:"role"`
	Subscription      bool   `json:"subscription"`
	SubscriptionStart string `json:"subscription_start,omitempty"`
	SubscriptionEnd   string `json:"subscription_end,omitempty"`
}

func toUserResponse(user *models.User) userResponse {
	resp := userResponse{
		ID:           user.ID,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Mobile:       user.Mobile,
		Pincode:      user.Pincode,
		ProfileImage: user.ProfileImage,
		Role:         user.Role,
		Subscription: user.Subscription,
	}
	if user.SubscriptionStart != nil {
		resp.SubscriptionStart = user.SubscriptionStart.Format(timeFormat)
	}
	if user.SubscriptionEnd != nil {
		resp.SubscriptionEnd = user.SubscriptionEnd.Format(timeFormat)
	}
	return resp
}

// Signup handles POST /auth/signup.
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Mobile    string `json:"mobile"`
		Pincode   string `json:"pincode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.auth.Signup(r.Context(), service.SignupInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Mobile:    req.Mobile,
		Pincode:   req.Pincode,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Password = strings.TrimSpace(req.Password)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"token_type": "Bearer",
		"user":       toUserResponse(user),
	})
}

// Profile handles GET /users/me.
func (h *AuthHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.auth.Profile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PUT /users/me.
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req struct {
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		Mobile       string `json:"mobile"`
		Pincode      string `json:"pincode"`
		ProfileImage string `json:"profile_image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), userID, service.UpdateProfileInput{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Mobile:       req.Mobile,
		Pincode:      req.Pincode,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Subscribe handles POST /users/me/subscription.
func (h *AuthHandlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	user, err := h.auth.Subscribe(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
