package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/Deek-011/formbot/internal/common/jwtverify"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/form/domain"
	"github.com/Deek-011/formbot/internal/form/service"
)

type mockFormService struct {
	createFunc func(ctx context.Context, userID string, input service.CreateInput) (domain.Form, error)
	listFunc   func(ctx context.Context, userID, folderID string) ([]domain.Form, error)
	getFunc    func(ctx context.Context, userID, formID string) (domain.Form, error)
	deleteFunc func(ctx context.Context, userID, formID string) error
}

func (m *mockFormService) Create(ctx context.Context, userID string, input service.CreateInput) (domain.Form, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, input)
	}
	return domain.Form{}, nil
}

func (m *mockFormService) ListByFolder(ctx context.Context, userID, folderID string) ([]domain.Form, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID, folderID)
	}
	return nil, nil
}

func (m *mockFormService) Get(ctx context.Context, userID, formID string) (domain.Form, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, userID, formID)
	}
	return domain.Form{}, service.ErrFormNotFound
}

func (m *mockFormService) Delete(ctx context.Context, userID, formID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, formID)
	}
	return nil
}

func serve(t *testing.T, svc FormService, method, path, body string) (int, map[string]any) {
	t.Helper()
	r := mux.NewRouter()
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(jwtverify.WithIdentity(r.Context(), jwtverify.Identity{UserID: "alice"})))
		})
	}
	NewHandler(svc, logger.NewDiscard(), time.Second).Register(r.PathPrefix("/api/v1").Subrouter(), auth)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return rr.Code, out
}

func TestCreateFormHandler(t *testing.T) {
	var got service.CreateInput
	status, body := serve(t, &mockFormService{
		createFunc: func(ctx context.Context, userID string, input service.CreateInput) (domain.Form, error) {
			got = input
			return domain.Form{ID: "form-1", Name: input.Name, Fields: input.Fields, UserID: userID, FolderID: input.FolderID}, nil
		},
	}, http.MethodPost, "/api/v1/forms",
		`{"formname":"Contact","folderId":"f1","fields":[{"type":"text","label":"Name","placeholder":"Jane","required":true}]}`)

	if status != http.StatusOK || body["message"] != "Form created successfully" {
		t.Fatalf("got %d %v", status, body)
	}
	newForm, ok := body["newForm"].(map[string]any)
	if !ok || newForm["formname"] != "Contact" || newForm["folderId"] != "f1" {
		t.Fatalf("unexpected newForm %v", body["newForm"])
	}
	if len(got.Fields) != 1 || got.Fields[0] != (domain.Field{Type: "text", Label: "Name", Placeholder: "Jane", Required: true}) {
		t.Errorf("fields not passed through: %+v", got.Fields)
	}
}

func TestCreateFormHandlerMissingFieldsIsNil(t *testing.T) {
	var got service.CreateInput
	serve(t, &mockFormService{
		createFunc: func(ctx context.Context, userID string, input service.CreateInput) (domain.Form, error) {
			got = input
			return domain.Form{}, service.ErrFormInputRequired
		},
	}, http.MethodPost, "/api/v1/forms", `{"formname":"Contact","folderId":"f1"}`)

	if got.Fields != nil {
		t.Fatalf("absent fields must reach the service as nil, got %#v", got.Fields)
	}
}

func TestCreateFormHandlerRequiredMessage(t *testing.T) {
	status, body := serve(t, &mockFormService{
		createFunc: func(ctx context.Context, userID string, input service.CreateInput) (domain.Form, error) {
			return domain.Form{}, service.ErrFormInputRequired
		},
	}, http.MethodPost, "/api/v1/forms", `{}`)
	if status != http.StatusBadRequest || body["message"] != "formname, fields, and folderId are required" {
		t.Fatalf("got %d %v", status, body)
	}
}

func TestListFormsByFolderHandler(t *testing.T) {
	var gotFolder string
	status, body := serve(t, &mockFormService{
		listFunc: func(ctx context.Context, userID, folderID string) ([]domain.Form, error) {
			gotFolder = folderID
			return []domain.Form{{ID: "a"}, {ID: "b"}}, nil
		},
	}, http.MethodGet, "/api/v1/folders/f7/forms", "")

	if status != http.StatusOK || gotFolder != "f7" {
		t.Fatalf("got %d folder=%q", status, gotFolder)
	}
	forms, ok := body["forms"].([]any)
	if !ok || len(forms) != 2 {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestGetAndDeleteFormHandler(t *testing.T) {
	status, body := serve(t, &mockFormService{}, http.MethodGet, "/api/v1/forms/zz", "")
	if status != http.StatusNotFound || body["message"] != "Form not found" {
		t.Fatalf("got %d %v", status, body)
	}

	status, body = serve(t, &mockFormService{
		deleteFunc: func(ctx context.Context, userID, formID string) error {
			return service.ErrFormDeleteForbidden
		},
	}, http.MethodDelete, "/api/v1/forms/zz", "")
	if status != http.StatusForbidden || body["message"] != "Not authorized to delete this form" {
		t.Fatalf("got %d %v", status, body)
	}

	status, body = serve(t, &mockFormService{}, http.MethodDelete, "/api/v1/forms/zz", "")
	if status != http.StatusOK || body["message"] != "Form deleted" {
		t.Fatalf("got %d %v", status, body)
	}
}
