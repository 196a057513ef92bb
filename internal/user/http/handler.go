package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	commonhttp "github.com/Deek-011/formbot/internal/common/http"
	"github.com/Deek-011/formbot/internal/common/jwtverify"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/user/service"
)

type UserService interface {
	Signup(ctx context.Context, input service.SignupInput) error
	Login(ctx context.Context, input service.LoginInput) (service.LoginResult, error)
	Update(ctx context.Context, userID string, input service.UpdateInput) error
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type updateRequest struct {
	Username    string `json:"username" validate:"omitempty,max=64"`
	Email       string `json:"email" validate:"omitempty,email,max=254"`
	OldPassword string `json:"oldPassword" validate:"omitempty,max=72"`
	NewPassword string `json:"newPassword" validate:"omitempty,min=8,max=72"`
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

type Handler struct {
	users   UserService
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(users UserService, log *logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		users:   users,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: timeout,
	}
}

// Register mounts the user routes on api; auth guards the routes that need
// an authenticated caller.
func (h *Handler) Register(api *mux.Router, auth func(http.Handler) http.Handler) {
	api.HandleFunc("/user/signup", h.signup).Methods(http.MethodPost)
	api.HandleFunc("/user/login", h.login).Methods(http.MethodPost)
	api.Handle("/user/update", auth(http.HandlerFunc(h.update))).Methods(http.MethodPost)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.users.Signup(ctx, service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "User created")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.users.Login(ctx, service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, loginResponse{Token: result.Token, Username: result.Username})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	err := h.users.Update(ctx, identity.UserID, service.UpdateInput{
		Username:    req.Username,
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteMessage(w, http.StatusOK, "User updated successfully")
}
