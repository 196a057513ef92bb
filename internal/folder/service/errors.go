package service

import (
	"net/http"

	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
)

var (
	ErrFolderNotFound = commonerrors.NewDomainError(
		"FOLDER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Folder not found",
	)

	ErrFolderExists = commonerrors.NewDomainError(
		"FOLDER_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"Folder already exists",
	)

	ErrFolderNameRequired = commonerrors.NewValidationError(
		"FOLDER_NAME_REQUIRED",
		"foldername is required",
	)

	ErrFolderAccessForbidden = commonerrors.NewDomainError(
		"FOLDER_FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Not authorized to access this folder",
	)

	ErrFolderDeleteForbidden = commonerrors.NewDomainError(
		"FOLDER_DELETE_FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Not authorized to delete this folder",
	)
)
