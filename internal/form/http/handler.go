package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	commonhttp "github.com/Deek-011/formbot/internal/common/http"
	"github.com/Deek-011/formbot/internal/common/jwtverify"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/form/domain"
	"github.com/Deek-011/formbot/internal/form/service"
)

type FormService interface {
	Create(ctx context.Context, userID string, input service.CreateInput) (domain.Form, error)
	ListByFolder(ctx context.Context, userID, folderID string) ([]domain.Form, error)
	Get(ctx context.Context, userID, formID string) (domain.Form, error)
	Delete(ctx context.Context, userID, formID string) error
}

type fieldDTO struct {
	Type        string `json:"type" validate:"max=64"`
	Label       string `json:"label" validate:"max=256"`
	Placeholder string `json:"placeholder" validate:"max=256"`
	Required    bool   `json:"required"`
}

// Presence of formname, fields and folderId is checked by the service so the
// client gets one combined message.
type createFormRequest struct {
	FormName string     `json:"formname" validate:"max=128"`
	Fields   []fieldDTO `json:"fields" validate:"omitempty,max=200,dive"`
	FolderID string     `json:"folderId"`
}

type formDTO struct {
	ID        string     `json:"id"`
	FormName  string     `json:"formname"`
	Fields    []fieldDTO `json:"fields"`
	UserID    string     `json:"userId"`
	FolderID  string     `json:"folderId"`
	CreatedAt time.Time  `json:"createdAt"`
}

type createFormResponse struct {
	Message string  `json:"message"`
	NewForm formDTO `json:"newForm"`
}

type formResponse struct {
	Form formDTO `json:"form"`
}

type formsResponse struct {
	Forms []formDTO `json:"forms"`
}

func toDTO(f domain.Form) formDTO {
	fields := make([]fieldDTO, 0, len(f.Fields))
	for _, fd := range f.Fields {
		fields = append(fields, fieldDTO(fd))
	}
	return formDTO{
		ID:        f.ID,
		FormName:  f.Name,
		Fields:    fields,
		UserID:    f.UserID,
		FolderID:  f.FolderID,
		CreatedAt: f.CreatedAt,
	}
}

func toDomainFields(in []fieldDTO) []domain.Field {
	if in == nil {
		return nil
	}
	out := make([]domain.Field, 0, len(in))
	for _, fd := range in {
		out = append(out, domain.Field(fd))
	}
	return out
}

type Handler struct {
	forms   FormService
	errors  *commonhttp.ErrorHandler
	timeout time.Duration
}

func NewHandler(forms FormService, log *logger.Logger, timeout time.Duration) *Handler {
	return &Handler{
		forms:   forms,
		errors:  commonhttp.NewErrorHandler(log),
		timeout: timeout,
	}
}

func (h *Handler) Register(api *mux.Router, auth func(http.Handler) http.Handler) {
	api.Handle("/forms", auth(http.HandlerFunc(h.create))).Methods(http.MethodPost)
	api.Handle("/forms/{id}", auth(http.HandlerFunc(h.get))).Methods(http.MethodGet)
	api.Handle("/forms/{id}", auth(http.HandlerFunc(h.delete))).Methods(http.MethodDelete)
	api.Handle("/folders/{id}/forms", auth(http.HandlerFunc(h.listByFolder))).Methods(http.MethodGet)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	var req createFormRequest
	if err := commonhttp.DecodeAndValidate(r, &req); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	form, err := h.forms.Create(ctx, identity.UserID, service.CreateInput{
		Name:     req.FormName,
		Fields:   toDomainFields(req.Fields),
		FolderID: req.FolderID,
	})
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, createFormResponse{
		Message: "Form created successfully",
		NewForm: toDTO(form),
	})
}

func (h *Handler) listByFolder(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	forms, err := h.forms.ListByFolder(ctx, identity.UserID, mux.Vars(r)["id"])
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}

	resp := formsResponse{Forms: make([]formDTO, 0, len(forms))}
	for _, f := range forms {
		resp.Forms = append(resp.Forms, toDTO(f))
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

	form, err := h.forms.Get(ctx, identity.UserID, mux.Vars(r)["id"])
	if err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteJSON(w, http.StatusOK, formResponse{Form: toDTO(form)})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := jwtverify.RequireIdentity(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.forms.Delete(ctx, identity.UserID, mux.Vars(r)["id"]); err != nil {
		h.errors.HandleError(w, r, err)
		return
	}
	commonhttp.WriteMessage(w, http.StatusOK, "Form deleted")
}
