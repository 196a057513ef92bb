package service

import (
	"net/http"

	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
)

var (
	ErrFormInputRequired = commonerrors.NewValidationError(
		"FORM_INPUT_REQUIRED",
		"formname, fields, and folderId are required",
	)

	ErrFormNotFound = commonerrors.NewDomainError(
		"FORM_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Form not found",
	)

	ErrFolderNotFound = commonerrors.NewDomainError(
		"FOLDER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"Folder not found",
	)

	ErrFolderUseForbidden = commonerrors.NewDomainError(
		"FOLDER_USE_FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Not authorized to use this folder",
	)

	ErrFolderAccessForbidden = commonerrors.NewDomainError(
		"FOLDER_FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Not authorized to access this folder",
	)

	ErrFormAccessForbidden = commonerrors.NewDomainError(
		"FORM_FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Not authorized to access this form",
	)

	ErrFormDeleteForbidden = commonerrors.NewDomainError(
		"FORM_DELETE_FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"Not authorized to delete this form",
	)
)
