package balanceerrors

import (
	"net/http"

	"leavehub/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found for this year",
		http.StatusNotFound,
	)
)
