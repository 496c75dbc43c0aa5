package errors

import (
	"net/http"

	"lebay/internal/errors"
)

// AppError is an error that knows how it should be presented to a client.
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-facing summary
	Details() string   // Field or form level detail (optional)
}

// BaseError is the default AppError implementation.
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// Is matches on error code so that WithDetails copies still satisfy errors.Is
// against the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

func (e *BaseError) HTTPCode() int     { return e.httpCode }
func (e *BaseError) ErrorCode() string { return e.errorCode }
func (e *BaseError) Message() string   { return e.message }
func (e *BaseError) Details() string   { return e.details }

// WithDetails returns a copy carrying details.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// AsAppError extracts an AppError from err's chain.
func AsAppError(err error) (AppError, bool) {
	var appErr AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}

// Validation
var (
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	ErrPasswordMismatch = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_MISMATCH",
		"password and retyped password didn't match",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_STRENGTH",
		"password is too weak",
		"",
	)

	ErrTimeInPast = NewBaseError(
		http.StatusBadRequest,
		"TIME_IN_PAST",
		"specified time occurs in the past",
		"",
	)

	ErrEndBeforeStart = NewBaseError(
		http.StatusBadRequest,
		"END_BEFORE_START",
		"end time must be greater than start time",
		"",
	)

	ErrReserveBelowStart = NewBaseError(
		http.StatusBadRequest,
		"RESERVE_BELOW_STARTING_PRICE",
		"reserve price must be higher than starting price",
		"",
	)

	ErrInvalidPaymentStatus = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PAYMENT_STATUS",
		"payment status transition is not allowed",
		"",
	)
)

// Authentication
var (
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"wrong username and/or password",
		"",
	)

	ErrAccountInactive = NewBaseError(
		http.StatusUnauthorized,
		"ACCOUNT_INACTIVE",
		"this account is disabled, please contact the webmaster",
		"",
	)

	ErrWrongCurrentPassword = NewBaseError(
		http.StatusUnauthorized,
		"WRONG_CURRENT_PASSWORD",
		"wrong current password",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"authentication required",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"invalid or expired refresh token",
		"",
	)

	ErrSessionLimitExceeded = NewBaseError(
		http.StatusTooManyRequests,
		"SESSION_LIMIT_EXCEEDED",
		"maximum number of active sessions reached",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"password processing failed",
		"",
	)
)

// Users and sellers
var (
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"user not found",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"username or email is already registered",
		"",
	)

	ErrSellerProfileRequired = NewBaseError(
		http.StatusForbidden,
		"SELLER_PROFILE_REQUIRED",
		"create a seller profile before listing items",
		"",
	)
)

// Catalog and listings
var (
	ErrCategoryNotFound = NewBaseError(
		http.StatusNotFound,
		"CATEGORY_NOT_FOUND",
		"category not found",
		"",
	)

	ErrItemNotFound = NewBaseError(
		http.StatusNotFound,
		"ITEM_NOT_FOUND",
		"item not found",
		"",
	)

	ErrItemNotEditable = NewBaseError(
		http.StatusConflict,
		"ITEM_NOT_EDITABLE",
		"item cannot be edited while it is being auctioned or after it closed",
		"",
	)

	ErrItemNotListable = NewBaseError(
		http.StatusConflict,
		"ITEM_NOT_LISTABLE",
		"only idle items can be listed for auction",
		"",
	)

	ErrAuctionNotFound = NewBaseError(
		http.StatusNotFound,
		"AUCTION_NOT_FOUND",
		"auction event not found",
		"",
	)

	ErrSaleNotFound = NewBaseError(
		http.StatusNotFound,
		"SALE_NOT_FOUND",
		"sale not found",
		"",
	)
)

// Auction rules
var (
	ErrBidTooLow = NewBaseError(
		http.StatusConflict,
		"BID_TOO_LOW",
		"your bid has to be higher than the current price",
		"",
	)

	ErrAuctionExpired = NewBaseError(
		http.StatusConflict,
		"AUCTION_EXPIRED",
		"this auction event has expired",
		"",
	)

	ErrAuctionNotStarted = NewBaseError(
		http.StatusConflict,
		"AUCTION_NOT_STARTED",
		"this auction event has not started yet",
		"",
	)

	ErrOwnAuction = NewBaseError(
		http.StatusForbidden,
		"OWN_AUCTION",
		"you cannot bid on your own auction",
		"",
	)

	ErrNotWinner = NewBaseError(
		http.StatusForbidden,
		"NOT_WINNER",
		"you are trying to pay for an item you didn't win",
		"",
	)

	ErrAlreadyPaid = NewBaseError(
		http.StatusConflict,
		"ALREADY_PAID",
		"you have already paid for this item",
		"",
	)

	ErrAuctionNotSettled = NewBaseError(
		http.StatusConflict,
		"AUCTION_NOT_SETTLED",
		"this auction has not been sold yet",
		"",
	)
)

// General
var (
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)

	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"database transaction failed",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"resource not found",
		"",
	)

	ErrConflict = NewBaseError(
		http.StatusConflict,
		"CONFLICT",
		"resource conflict",
		"",
	)
)

// DatabaseExecuteError hides a storage failure behind a generic message.
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

func (e *DatabaseExecuteError) Unwrap() error { return e.err }

func (e *DatabaseExecuteError) HTTPCode() int { return http.StatusInternalServerError }

func (e *DatabaseExecuteError) ErrorCode() string { return "DATABASE_EXECUTE_FAILED" }

func (e *DatabaseExecuteError) Message() string { return "database execution failed" }

func (e *DatabaseExecuteError) Details() string { return e.details }
