package service

import (
	"net/http"

	commonerrors "github.com/Deek-011/formbot/internal/common/errors"
)

var (
	ErrUserExists = commonerrors.NewDomainError(
		"USER_EXISTS",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"User already exists",
	)

	ErrUserNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"User not found",
	)

	ErrWrongPassword = commonerrors.NewValidationError(
		"WRONG_PASSWORD",
		"Wrong password",
	)

	ErrEmailInUse = commonerrors.NewDomainError(
		"EMAIL_IN_USE",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"Email already in use",
	)

	ErrPasswordPairRequired = commonerrors.NewValidationError(
		"PASSWORD_PAIR_REQUIRED",
		"Both oldPassword and newPassword are required to change the password",
	)

	ErrIncorrectOldPassword = commonerrors.NewValidationError(
		"INCORRECT_OLD_PASSWORD",
		"Incorrect old password",
	)

	ErrSamePassword = commonerrors.NewValidationError(
		"SAME_PASSWORD",
		"Password can't be the same",
	)
)
