package aggregates

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	domainagg "github.com/yungbote/orderdesk-backend/internal/domain/aggregates"
	"gorm.io/gorm"
)

func TestMapError_Validation(t *testing.T) {
	err := MapError("op", ValidationError("bad input"))
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_Conflict(t *testing.T) {
	err := MapError("op", ConflictError("stale"))
	if !domainagg.IsCode(err, domainagg.CodeConflict) {
		t.Fatalf("expected conflict code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_NotFound(t *testing.T) {
	err := MapError("op", gorm.ErrRecordNotFound)
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", domainagg.CodeOf(err), err)
	}
}

func TestMapError_PassthroughAggregateError(t *testing.T) {
	in := domainagg.NewError(domainagg.CodeRetryable, "op", "retry", errors.New("boom"))
	out := MapError("other", in)
	if out != in {
		t.Fatalf("expected passthrough aggregate error")
	}
}

func TestMapError_InsufficientStock(t *testing.T) {
	err := MapError("op", InsufficientStockError(7, 5, 2))
	if !domainagg.IsCode(err, domainagg.CodeInsufficientStock) {
		t.Fatalf("expected insufficient_stock code, got %q (%v)", domainagg.CodeOf(err), err)
	}
	var aggErr *domainagg.Error
	if !errors.As(err, &aggErr) {
		t.Fatalf("expected *aggregates.Error")
	}
	if aggErr.Message != "insufficient stock for item 7 (requested 5, available 2)" {
		t.Fatalf("sentinel prefix should be dropped, got %q", aggErr.Message)
	}
	short, ok := domainagg.ShortageOf(err)
	if !ok || short.ItemID != 7 || short.Requested != 5 || short.Available != 2 {
		t.Fatalf("expected shortage detail, got %+v ok=%v", short, ok)
	}
}

func TestMapError_TranslatedGormErrors(t *testing.T) {
	cases := []struct {
		in   error
		want domainagg.ErrorCode
	}{
		{gorm.ErrDuplicatedKey, domainagg.CodeConflict},
		{gorm.ErrForeignKeyViolated, domainagg.CodePreconditionFailed},
		{errors.New("UNIQUE constraint failed: customers.email"), domainagg.CodeConflict},
		{errors.New("database is locked"), domainagg.CodeRetryable},
		{errors.New("something odd"), domainagg.CodeInternal},
	}
	for _, tc := range cases {
		if got := domainagg.CodeOf(MapError("op", tc.in)); got != tc.want {
			t.Fatalf("MapError(%v): want=%s got=%s", tc.in, tc.want, got)
		}
	}
}

func TestMapError_PgCodes(t *testing.T) {
	cases := map[string]domainagg.ErrorCode{
		"23505": domainagg.CodeConflict,
		"23503": domainagg.CodePreconditionFailed,
		"40001": domainagg.CodeRetryable,
		"40P01": domainagg.CodeRetryable,
	}
	for code, want := range cases {
		err := MapError("op", &pgconn.PgError{Code: code, Message: "pg"})
		if got := domainagg.CodeOf(err); got != want {
			t.Fatalf("pg code %s: want=%s got=%s", code, want, got)
		}
	}
}
