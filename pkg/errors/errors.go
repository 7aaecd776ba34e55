package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation   Code = "VALIDATION_ERROR"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeForbidden    Code = "FORBIDDEN"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeIdempotency  Code = "IDEMPOTENCY_KEY_REUSED"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeDependency   Code = "DEPENDENCY_ERROR"

	// Checkout taxonomy. Each code drives distinct client behavior
	// (redirect vs. retry vs. support messaging), so they are never
	// collapsed into a generic failure.
	CodeNoUserSession       Code = "NO_USER_SESSION"
	CodeNoDeliveryAddress   Code = "NO_DELIVERY_ADDRESS"
	CodeGatewaySetupFailed  Code = "GATEWAY_SETUP_FAILED"
	CodeGatewayDeclined     Code = "GATEWAY_DECLINED"
	CodeOrderCreateFailed   Code = "ORDER_CREATE_FAILED"
	CodeOrderItemsFailed    Code = "ORDER_ITEMS_CREATE_FAILED"
	CodeCheckoutInProgress  Code = "CHECKOUT_IN_PROGRESS"
)

type Metadata struct {
	HTTPStatus     int
	Retryable      bool
	Reconciliation bool
	PublicMessage  string
	DetailsAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "validation failed",
		DetailsAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "authentication required",
	},
	CodeForbidden: {
		HTTPStatus:    http.StatusForbidden,
		PublicMessage: "access denied",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		PublicMessage: "resource not found",
	},
	CodeConflict: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "conflict detected",
	},
	CodeIdempotency: {
		HTTPStatus:     http.StatusConflict,
		PublicMessage:  "idempotency key reused",
		DetailsAllowed: true,
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
	CodeDependency: {
		HTTPStatus:     http.StatusServiceUnavailable,
		Retryable:      true,
		PublicMessage:  "dependency unavailable",
		DetailsAllowed: true,
	},
	CodeNoUserSession: {
		HTTPStatus:    http.StatusUnauthorized,
		PublicMessage: "sign in required",
	},
	CodeNoDeliveryAddress: {
		HTTPStatus:     http.StatusPreconditionFailed,
		PublicMessage:  "delivery address required",
		DetailsAllowed: true,
	},
	CodeGatewaySetupFailed: {
		HTTPStatus:     http.StatusBadGateway,
		Retryable:      true,
		PublicMessage:  "payment setup failed",
		DetailsAllowed: true,
	},
	CodeGatewayDeclined: {
		HTTPStatus:     http.StatusPaymentRequired,
		Retryable:      true,
		PublicMessage:  "payment declined",
		DetailsAllowed: true,
	},
	CodeOrderCreateFailed: {
		HTTPStatus:     http.StatusInternalServerError,
		Reconciliation: true,
		PublicMessage:  "payment succeeded but the order could not be recorded",
		DetailsAllowed: true,
	},
	CodeOrderItemsFailed: {
		HTTPStatus:     http.StatusInternalServerError,
		Reconciliation: true,
		PublicMessage:  "order recorded but its items could not be saved",
		DetailsAllowed: true,
	},
	CodeCheckoutInProgress: {
		HTTPStatus:    http.StatusConflict,
		PublicMessage: "a checkout attempt is already in progress",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// IsReconciliation reports whether the error occurred after funds were
// committed but before the purchase record was durably stored.
func IsReconciliation(err error) bool {
	typed := As(err)
	if typed == nil {
		return false
	}
	return MetadataFor(typed.Code()).Reconciliation
}
