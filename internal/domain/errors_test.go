package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	base := NewError(KindInsufficientStock, "insufficient stock for product %q", "Court Classic")
	wrapped := fmt.Errorf("checkout failed: %w", base)

	assert.Equal(t, KindInsufficientStock, KindOf(wrapped))
	assert.Equal(t, `insufficient stock for product "Court Classic"`, base.Error())
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindUnexpected, KindOf(fmt.Errorf("connection reset")))
}
