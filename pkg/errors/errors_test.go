package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForCheckoutCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code           Code
		status         int
		reconciliation bool
	}{
		{CodeNoUserSession, http.StatusUnauthorized, false},
		{CodeNoDeliveryAddress, http.StatusPreconditionFailed, false},
		{CodeGatewaySetupFailed, http.StatusBadGateway, false},
		{CodeGatewayDeclined, http.StatusPaymentRequired, false},
		{CodeOrderCreateFailed, http.StatusInternalServerError, true},
		{CodeOrderItemsFailed, http.StatusInternalServerError, true},
		{CodeCheckoutInProgress, http.StatusConflict, false},
	}

	for _, tc := range cases {
		meta := MetadataFor(tc.code)
		if meta.HTTPStatus != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, meta.HTTPStatus)
		}
		if meta.Reconciliation != tc.reconciliation {
			t.Fatalf("%s: expected reconciliation=%v", tc.code, tc.reconciliation)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("MYSTERY"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("socket closed")
	err := Wrap(CodeGatewaySetupFailed, cause, "creating payment intent")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to survive errors.Is")
	}
	if typed := As(fmt.Errorf("outer: %w", err)); typed == nil || typed.Code() != CodeGatewaySetupFailed {
		t.Fatalf("expected typed error through wrapping, got %v", typed)
	}
}

func TestIsReconciliation(t *testing.T) {
	t.Parallel()

	if !IsReconciliation(New(CodeOrderCreateFailed, "insert failed")) {
		t.Fatal("order create failure is reconciliation-class")
	}
	if IsReconciliation(New(CodeGatewayDeclined, "declined")) {
		t.Fatal("gateway decline is retryable, not reconciliation-class")
	}
	if IsReconciliation(stdErrors.New("plain")) {
		t.Fatal("untyped errors are not reconciliation-class")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeOrderItemsFailed, stdErrors.New("bulk insert"), "saving order items")
	d := Dump(err)

	if d.Code != CodeOrderItemsFailed {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", d.Chain)
	}
}
