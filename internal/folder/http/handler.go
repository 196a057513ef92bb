package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	commonhttp "github.com/Deek-011/formbot/internal/common/http"
	"github.com/Deek-011/formbot/internal/common/jwtverify"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/folder/domain"
)

type FolderService interface {
	List(ctx context.Context, userID string) ([]domain.Folder, error)
	Get(ctx context.Context, userID, folderID string) (domain.Folder, error)
	Create(ctx context.Context, userID, name string) (domain.Folder, error)
	Delete(ctx context.Context, userID, folderID string) error
}

type createFolderRequest struct {
	FolderName string `json:"foldername" validate:"required,max=128"`
}

type folderDTO struct {
	ID         string    `json:"id"`
	FolderName string    `json:"foldername"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type foldersResponse struct {
	Folders []folderDTO `json:"folders"`
}

type folderResponse struct {
	Folder folderDTO `json:"folder"`
}

type createFolderResponse struct {
	Message string    `json:"message"`
	Folder  folderDTO `json:"folder"`
}

func toDTO(f domain.Folder) folderDTO {
	return folderDTO{
		ID:         f.ID,
		FolderName: f.Name,
		UserID:     f.UserID,
		CreatedAt:  f.CreatedAt,
	}
}

type Handler struct {
	folders FolderService
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
}

func NewHandler(folders FolderService, log *logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		folders: folders,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
	}
}

func (h *Handler) Register(api *mux.Router, auth func(http.Handler) http.Handler) {
	api.Handle("/folders", auth(http.HandlerFunc(h.list))).Methods(http.MethodGet)
	api.Handle("/folders/{id}", auth(http.HandlerFunc(h.get))).Methods(http.MethodGet)
	api.Handle("/folders/{id}", auth(http.HandlerFunc(h.delete))).Methods(http.MethodDelete)
	api.Handle("/folder", auth(http.HandlerFunc(h.create))).Methods(http.MethodPost)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	folders, err := h.folders.List(ctx, identity.UserID)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	resp := foldersResponse{Folders: make([]folderDTO, 0, len(folders))}
	for _, f := range folders {
		resp.Folders = append(resp.Folders, toDTO(f))
	}
	commonhttp.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	folder, err := h.folders.Get(ctx, identity.UserID, mux.Vars(r)["id"])
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, folderResponse{Folder: toDTO(folder)})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	var req createFolderRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	folder, err := h.folders.Create(ctx, identity.UserID, req.FolderName)
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, createFolderResponse{Message: "Folder created", Folder: toDTO(folder)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.folders.Delete(ctx, identity.UserID, mux.Vars(r)["id"]); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteMessage(w, http.StatusOK, "Folder deleted")
}
