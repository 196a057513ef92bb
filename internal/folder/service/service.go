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
	"github.com/Deek-011/formbot/internal/folder/domain"
	folderrepo "github.com/Deek-011/formbot/internal/folder/repository"
	"github.com/Deek-011/formbot/internal/observability/metrics"
)

type Service struct {
	repo    folderrepo.Repository
	ids     commoncrypto.IDGenerator
	breaker resilience.CircuitBreakerInterface
	clock   clock.Clock
	log     *logger.Logger
}

func NewService(
	repo folderrepo.Repository,
	ids commoncrypto.IDGenerator,
	breaker resilience.CircuitBreakerInterface,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:    repo,
		ids:     ids,
		breaker: breaker,
		clock:   clk,
		log:     log,
	}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Folder, error) {
	var folders []domain.Folder
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		folders, err = s.repo.ListByUser(ctx, userID)
		return err
	})
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "folder_list_failed",
		}).Errorf("list folders failed: %v", err)
		return nil, commonerrors.EnsureDomain(err, "FOLDER_LIST_FAILED")
	}
	return folders, nil
}

func (s *Service) Get(ctx context.Context, userID, folderID string) (domain.Folder, error) {
	folder, err := s.load(ctx, folderID)
	if err != nil {
		return domain.Folder{}, err
	}

	if err := authz.RequireOwner(userID, folder.UserID); err != nil {
		s.denied(ctx, userID, folderID, "get")
		return domain.Folder{}, ErrFolderAccessForbidden.WithCause(err)
	}
	return folder, nil
}

func (s *Service) Create(ctx context.Context, userID, name string) (domain.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Folder{}, ErrFolderNameRequired
	}

	id, err := s.ids.NewID()
	if err != nil {
		return domain.Folder{}, commonerrors.NewInternalError("ID_GENERATION_FAILED", "failed to generate id", err)
	}

	folder := domain.Folder{
		ID:        id,
		Name:      name,
		UserID:    userID,
		CreatedAt: s.clock.Now(),
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, folder)
	})
	if err != nil {
		if errors.Is(err, folderrepo.ErrFolderExists) {
			s.log.WithFields(ctx, logger.Fields{
				"user_id": userID,
				"action":  "folder_create_exists",
			}).Warn("folder already exists")
			return domain.Folder{}, ErrFolderExists
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "folder_create_failed",
		}).Errorf("create folder failed: %v", err)
		return domain.Folder{}, commonerrors.EnsureDomain(err, "FOLDER_CREATE_FAILED")
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   userID,
		"folder_id": folder.ID,
		"action":    "folder_created",
	}).Info("folder created")
	return folder, nil
}

// Delete checks ownership before touching the store; a refused delete
// leaves the folder and its forms untouched.
func (s *Service) Delete(ctx context.Context, userID, folderID string) error {
	folder, err := s.load(ctx, folderID)
	if err != nil {
		return err
	}

	if err := authz.RequireOwner(userID, folder.UserID); err != nil {
		s.denied(ctx, userID, folderID, "delete")
		return ErrFolderDeleteForbidden.WithCause(err)
	}

	err = s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, folderID)
	})
	if err != nil {
		if errors.Is(err, folderrepo.ErrFolderNotFound) {
			return ErrFolderNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"user_id":   userID,
			"folder_id": folderID,
			"action":    "folder_delete_failed",
		}).Errorf("delete folder failed: %v", err)
		return commonerrors.EnsureDomain(err, "FOLDER_DELETE_FAILED")
	}

	s.log.WithFields(ctx, logger.Fields{
		"user_id":   userID,
		"folder_id": folderID,
		"action":    "folder_deleted",
	}).Info("folder deleted")
	return nil
}

func (s *Service) load(ctx context.Context, folderID string) (domain.Folder, error) {
	var folder domain.Folder
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		folder, err = s.repo.FindByID(ctx, folderID)
		return err
	})
	if err != nil {
		if errors.Is(err, folderrepo.ErrFolderNotFound) {
			return domain.Folder{}, ErrFolderNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"folder_id": folderID,
			"action":    "folder_lookup_failed",
		}).Errorf("folder lookup failed: %v", err)
		return domain.Folder{}, commonerrors.EnsureDomain(err, "FOLDER_LOOKUP_FAILED")
	}
	return folder, nil
}

func (s *Service) denied(ctx context.Context, userID, folderID, operation string) {
	metrics.OwnershipDenied.WithLabelValues("folder", operation).Inc()
	s.log.WithFields(ctx, logger.Fields{
		"user_id":   userID,
		"folder_id": folderID,
		"action":    "folder_" + operation + "_forbidden",
	}).Warn("ownership check failed")
}
