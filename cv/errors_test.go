package cv

import (
	"context"
	"fmt"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{ErrInvalidFormat, errorslib.CategoryValidation, "invalid_format"},
		{NewError(KindNotFound, "missing", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindBusy, "export already in progress", nil), errorslib.CategoryOperation, "busy"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindIO, "disk", nil), errorslib.CategoryInternal, "io"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("expected category %s, got %s", tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("expected text code %s, got %s", tc.code, mapped.TextCode)
		}
	}
}

func TestKindFromWrappedError(t *testing.T) {
	err := fmt.Errorf("import: %w", ErrInvalidFormat)
	if !IsKind(err, KindInvalidFormat) {
		t.Fatalf("expected invalid_format, got %s", KindFromError(err))
	}
	if KindFromError(nil) != "" {
		t.Fatalf("expected empty kind for nil")
	}
}
