package implementations

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert account: %w", &pq.Error{Code: "23505"})
	if !isUniqueViolation(wrapped) {
		t.Fatal("expected wrapped 23505 to be a unique violation")
	}
	if isUniqueViolation(&pq.Error{Code: "23503"}) {
		t.Fatal("expected foreign key violation not to be a unique violation")
	}
	if isUniqueViolation(errors.New("boom")) {
		t.Fatal("expected plain error not to be a unique violation")
	}
}
