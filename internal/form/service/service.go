package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Deek-011/formbot/internal/common/authz"
	"github.com/Deek-011/formbot/internal/common/clock"
	commoncrypto "github.com/Deek-011/formbot/internal/common/crypto"
	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
	"github.com/Deek-011/formbot/internal/common/logger"
	"github.com/Deek-011/formbot/internal/common/resilience"
	folderdomain "github.com/Deek-011/formbot/internal/folder/domain"
	folderrepo "github.com/Deek-011/formbot/internal/folder/repository"
	"github.com/Deek-011/formbot/internal/form/domain"
	formrepo "github.com/Deek-011/formbot/internal/form/repository"
	"github.com/Deek-011/formbot/internal/observability/metrics"
)

// FolderReader is the slice of the folder store forms need for ownership
// checks on the parent folder.
type FolderReader interface {
	FindByID(ctx context.Context, id string) (folderdomain.Folder, error)
}

type Service struct {
	repo    formrepo.Repository
	folders FolderReader
	ids     commoncrypto.IDGenerator
	breaker resilience.CircuitBreakerInterface
	clock   clock.Clock
	log     *logger.Logger
}

func NewService(
	repo formrepo.Repository,
	folders FolderReader,
	ids commoncrypto.IDGenerator,
	breaker resilience.CircuitBreakerInterface,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:    repo,
		folders: folders,
		ids:     ids,
		breaker: breaker,
		clock:   clk,
		log:     log,
	}
}

// CreateInput.Fields distinguishes nil (not sent) from an empty list.
type CreateInput struct {
	Name     string
	Fields   []domain.Field
	FolderID string
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (domain.Form, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || input.Fields == nil || input.FolderID == "" {
		return domain.Form{}, ErrFormInputRequired
	}

	folder, err := s.loadFolder(ctx, input.FolderID)
	if err != nil {
		return domain.Form{}, err
	}
	if err := authz.RequireOwner(userID, folder.UserID); err != nil {
		s.denied(ctx, userID, "folder", folder.ID, "create_form")
		return domain.Form{}, ErrFolderUseForbidden.WithCause(err)
	}

	id, err := s.ids.NewID()
	if err != nil {
		return domain.Form{}, commonerrors.NewInternalError("ID_GENERATION_FAILED", "failed to generate id", err)
	}

	form := domain.Form{
		ID:        id,
		Name:      name,
		Fields:    input.Fields,
		UserID:    userID,
		FolderID:  folder.ID,
		CreatedAt: s.clock.Now(),
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, form)
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   userID,
			"folder_id": folder.ID,
			"action":    "form_create_failed",
		}).Errorf("create form failed: %v", err)
		return domain.Form{}, commonerrors.EnsureDomain(err, "FORM_CREATE_FAILED")
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   userID,
		"folder_id": folder.ID,
		"form_id":   form.ID,
		"fields":    len(form.Fields),
		"action":    "form_created",
	}).Info("form created")
	return form, nil
}

func (s *Service) ListByFolder(ctx context.Context, userID, folderID string) ([]domain.Form, error) {
	folder, err := s.loadFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(userID, folder.UserID); err != nil {
		s.denied(ctx, userID, "folder", folderID, "list_forms")
		return nil, ErrFolderAccessForbidden.WithCause(err)
	}

	var forms []domain.Form
	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		forms, err = s.repo.ListByFolder(ctx, folderID)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   userID,
			"folder_id": folderID,
			"action":    "form_list_failed",
		}).Errorf("list forms failed: %v", err)
		return nil, commonerrors.EnsureDomain(err, "FORM_LIST_FAILED")
	}
	return forms, nil
}

func (s *Service) Get(ctx context.Context, userID, formID string) (domain.Form, error) {
	form, err := s.load(ctx, formID)
	if err != nil {
		return domain.Form{}, err
	}
	if err := authz.RequireOwner(userID, form.UserID); err != nil {
		s.denied(ctx, userID, "form", formID, "get")
		return domain.Form{}, ErrFormAccessForbidden.WithCause(err)
	}
	return form, nil
}

func (s *Service) Delete(ctx context.Context, userID, formID string) error {
	form, err := s.load(ctx, formID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(userID, form.UserID); err != nil {
		s.denied(ctx, userID, "form", formID, "delete")
		return ErrFormDeleteForbidden.WithCause(err)
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, formID)
	})
	if err != nil {
		if errors.Is(err, formrepo.ErrFormNotFound) {
			return ErrFormNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"form_id": formID,
			"action":  "form_delete_failed",
		}).Errorf("delete form failed: %v", err)
		return commonerrors.EnsureDomain(err, "FORM_DELETE_FAILED")
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id": userID,
		"form_id": formID,
		"action":  "form_deleted",
	}).Info("form deleted")
	return nil
}

func (s *Service) load(ctx context.Context, formID string) (domain.Form, error) {
	var form domain.Form
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		form, err = s.repo.FindByID(ctx, formID)
		return err
	})
	if err != nil {
		if errors.Is(err, formrepo.ErrFormNotFound) {
			return domain.Form{}, ErrFormNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"form_id": formID,
			"action":  "form_lookup_failed",
		}).Errorf("form lookup failed: %v", err)
		return domain.Form{}, commonerrors.EnsureDomain(err, "FORM_LOOKUP_FAILED")
	}
	return form, nil
}

func (s *Service) loadFolder(ctx context.Context, folderID string) (folderdomain.Folder, error) {
	var folder folderdomain.Folder
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		folder, err = s.folders.FindByID(ctx, folderID)
		return err
	})
	if err != nil {
		if errors.Is(err, folderrepo.ErrFolderNotFound) {
			return folderdomain.Folder{}, ErrFolderNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"folder_id": folderID,
			"action":    "folder_lookup_failed",
		}).Errorf("folder lookup failed: %v", err)
		return folderdomain.Folder{}, commonerrors.EnsureDomain(err, "FOLDER_LOOKUP_FAILED")
	}
	return folder, nil
}

func (s *Service) denied(ctx context.Context, userID, resource, resourceID, operation string) {
	metrics.OwnershipDenied.WithLabelValues(resource, operation).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":     userID,
		"resource":    resource,
		"resource_id": resourceID,
		"action":      resource + "_" + operation + "_forbidden",
	}).Warn("ownership check failed")
}
