package leaveerrors

import (
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"leavehub/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must not be after end_date",
		http.StatusBadRequest,
	)
	ErrUnsupportedLeaveType = apperror.New(
		apperror.CodeInvalidInput,
		"unsupported leave type, only paid leave is available",
		http.StatusBadRequest,
	)
	ErrHalfDayPeriodRequired = apperror.New(
		apperror.CodeInvalidInput,
		"half_day_period is required for half day requests",
		http.StatusBadRequest,
	)
	ErrZeroChargeableDays = apperror.New(
		apperror.CodeInvalidInput,
		"requested range contains no chargeable days",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrAlreadyProcessed = apperror.New(
		apperror.CodeInvalidState,
		"leave request already processed",
		http.StatusConflict,
	)
	ErrNotCancellable = apperror.New(
		apperror.CodeInvalidState,
		"leave request can no longer be cancelled",
		http.StatusConflict,
	)
)

// ErrInsufficientBalance reports the remaining balance so the caller can see
// how many days were actually available.
func ErrInsufficientBalance(available decimal.Decimal) *apperror.AppError {
	return apperror.New(
		apperror.CodeConflict,
		fmt.Sprintf("insufficient leave balance: %s days available", available.String()),
		http.StatusConflict,
	)
}
