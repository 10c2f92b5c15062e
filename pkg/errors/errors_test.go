package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code      Code
		status    int
		publicMsg string
		retryable bool
		detailsOK bool
	}{
		{code: CodeValidation, status: http.StatusBadRequest, publicMsg: "validation failed", detailsOK: true},
		{code: CodeUnauthorized, status: http.StatusUnauthorized, publicMsg: "authentication required"},
		{code: CodeForbidden, status: http.StatusForbidden, publicMsg: "access denied"},
		{code: CodeNotFound, status: http.StatusNotFound, publicMsg: "resource not found"},
		{code: CodeConflict, status: http.StatusConflict, publicMsg: "conflict detected", detailsOK: true},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity, publicMsg: "state transition disallowed", detailsOK: true},
		{code: CodeIdempotency, status: http.StatusConflict, publicMsg: "idempotency key reused", detailsOK: true},
		{code: CodeInternal, status: http.StatusInternalServerError, publicMsg: "internal server error", retryable: true},
		{code: CodeDependency, status: http.StatusServiceUnavailable, publicMsg: "dependency unavailable", retryable: true, detailsOK: true},
	}

	for _, tt := range tests {
		meta := MetadataFor(tt.code)
		if meta.HTTPStatus != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, meta.HTTPStatus)
		}
		if meta.PublicMessage != tt.publicMsg {
			t.Fatalf("code %s expected public message %q got %q", tt.code, tt.publicMsg, meta.PublicMessage)
		}
		if meta.Retryable != tt.retryable {
			t.Fatalf("code %s expected retryable %v got %v", tt.code, tt.retryable, meta.Retryable)
		}
		if meta.DetailsAllowed != tt.detailsOK {
			t.Fatalf("code %s expected details allowed %v got %v", tt.code, tt.detailsOK, meta.DetailsAllowed)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	meta := MetadataFor("SOMETHING_UNKNOWN")
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesSentinel(t *testing.T) {
	sentinel := stdErrors.New("invalid quantity")
	err := fmt.Errorf("add to cart: %w", Wrap(CodeValidation, sentinel, "minimum quantity is 0.25"))

	if !stdErrors.Is(err, sentinel) {
		t.Fatalf("expected sentinel to be reachable through the chain")
	}
	typed := As(err)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeValidation {
		t.Fatalf("unexpected code %s", typed.Code())
	}
	if typed.Message() != "minimum quantity is 0.25" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(stdErrors.New("plain")); got != CodeInternal {
		t.Fatalf("expected internal for untyped error, got %s", got)
	}
	if got := CodeOf(Newf(CodeNotFound, "product %s not found", "abc")); got != CodeNotFound {
		t.Fatalf("expected not found, got %s", got)
	}
	if IsCode(nil, CodeInternal) {
		t.Fatal("nil error should never match a code")
	}
}

func TestWithDetailsOnNil(t *testing.T) {
	var e *Error
	if e.WithDetails(map[string]string{"a": "b"}) != nil {
		t.Fatal("expected nil receiver to stay nil")
	}
	if e.Code() != CodeInternal {
		t.Fatalf("nil error should report internal code")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	err := fmt.Errorf("checkout: %w", Wrap(CodeDependency, stdErrors.New("connection refused"), "persist order"))
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("expected dependency code, got %s", dump.Code)
	}
	if len(dump.Chain) != 3 {
		t.Fatalf("expected 3 chain entries, got %d: %v", len(dump.Chain), dump.Chain)
	}
	if dump.PGCode != "" {
		t.Fatalf("expected no postgres code, got %q", dump.PGCode)
	}
}

func TestDumpNamesKnownConstraint(t *testing.T) {
	err := fmt.Errorf("create order: %w", &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_orders_order_number",
		TableName:      "orders",
		Detail:         "Key (order_number)=(BH-20260301-0001) already exists.",
	})
	dump := Dump(err)
	if dump.PGCode != "23505" || dump.PGTable != "orders" {
		t.Fatalf("unexpected postgres fields %+v", dump)
	}
	if dump.PGHint != "order number already issued" {
		t.Fatalf("unexpected hint %q", dump.PGHint)
	}

	unknown := Dump(&pgconn.PgError{Code: "23505", ConstraintName: "some_other_index"})
	if unknown.PGHint != "" {
		t.Fatalf("expected no hint for foreign constraint, got %q", unknown.PGHint)
	}
}

func TestFromConstraint(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"order number taken", &pgconn.PgError{Code: "23505", ConstraintName: "idx_orders_order_number"}, CodeConflict, "order number already issued"},
		{"stock below zero", &pgconn.PgError{Code: "23514", ConstraintName: "products_stock_quantity_check"}, CodeConflict, "insufficient stock"},
		{"product deleted", &pq.Error{Code: "23503", Constraint: "order_items_product_id_fkey"}, CodeNotFound, "product no longer exists"},
		{"bad quantity via lib/pq", &pq.Error{Code: "23514", Constraint: "order_items_quantity_check"}, CodeValidation, "item quantity must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typed := FromConstraint(fmt.Errorf("insert: %w", tt.err))
			if typed == nil {
				t.Fatal("expected typed error")
			}
			if typed.Code() != tt.code || typed.Message() != tt.message {
				t.Fatalf("got %s %q", typed.Code(), typed.Message())
			}
		})
	}

	if FromConstraint(stdErrors.New("connection reset")) != nil {
		t.Fatal("plain errors are not constraint violations")
	}
	if FromConstraint(&pgconn.PgError{Code: "23505", ConstraintName: "unrelated_key"}) != nil {
		t.Fatal("unknown constraints are left to the caller")
	}
}
