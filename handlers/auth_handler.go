package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/emilianozm24/baloncesto-api/middleware"
	"github.com/emilianozm24/baloncesto-api/models"
	"github.com/emilianozm24/baloncesto-api/services"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

// sessionTTL is how long an issued session token stays valid.
const sessionTTL = 180 * 24 * time.Hour

type AuthHandler struct {
	authService services.AuthService
	userService services.UserService
	jwtSecret   []byte
}

func NewAuthHandler(authService services.AuthService, userService services.UserService, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		jwtSecret:   []byte(jwtSecret),
	}
}

func (h *AuthHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var input services.CreateAccountInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if _, err := h.authService.CreateAccount(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, jsonResponse{
		"message": "account created, check your email to confirm it",
	}, nil)
}

func (h *AuthHandler) ConfirmAccount(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token string `json:"token"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.authService.ConfirmAccount(r.Context(), input.Token); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "account confirmed"}, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	user, err := h.authService.Login(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	token, err := h.issueSessionToken(user)
	if err != nil {
		serverErrorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"token": token}, nil)
}

func (h *AuthHandler) RequestConfirmationCode(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.authService.RequestConfirmationCode(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "a new code was sent to your email"}, nil)
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{
		"message": "if the account exists, reset instructions were sent",
	}, nil)
}

func (h *AuthHandler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Token string `json:"token"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	if err := h.authService.ValidateToken(r.Context(), input.Token); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "token is valid, set your new password"}, nil)
}

func (h *AuthHandler) UpdatePasswordWithToken(w http.ResponseWriter, r *http.Request) {
	tokenValue := chi.URLParam(r, "token")

	var input struct {
		Password             string `json:"password"`
		PasswordConfirmation string `json:"password_confirmation"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}
	if input.Password != input.PasswordConfirmation {
		badRequestResponse(w, fmt.Errorf("passwords do not match"))
		return
	}

	if err := h.authService.UpdatePasswordWithToken(r.Context(), tokenValue, input.Password); err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jsonResponse{"message": "password updated"}, nil)
}

func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.CurrentUser(r.Context())
	if !ok {
		unauthorizedResponse(w, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, user, nil)
}

func (h *AuthHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.CurrentUser(r.Context())
	if !ok {
		unauthorizedResponse(w, "unauthorized")
		return
	}

	targetID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || targetID <= 0 {
		badRequestResponse(w, fmt.Errorf("invalid user id"))
		return
	}

	var input struct {
		Role models.UserRole `json:"role"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, err)
		return
	}

	user, err := h.userService.ChangeRole(r.Context(), actor, targetID, input.Role)
	if err != nil {
		mapServiceErrorToHTTP(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user, nil)
}

func (h *AuthHandler) issueSessionToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(sessionTTL).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
