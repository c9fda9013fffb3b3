package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusProcessing, true},
		{StatusProcessing, StatusShipped, true},
		{StatusShipped, StatusDelivered, true},

		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusProcessing, StatusRefunded, true},

		{StatusPending, StatusProcessing, false},
		{StatusConfirmed, StatusDelivered, false},
		{StatusShipped, StatusCancelled, false},
		{StatusShipped, StatusRefunded, false},

		{StatusDelivered, StatusRefunded, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusRefunded, StatusPending, false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, IsCancellable(StatusPending))
	assert.True(t, IsCancellable(StatusConfirmed))
	assert.True(t, IsCancellable(StatusProcessing))

	assert.False(t, IsCancellable(StatusShipped))
	assert.False(t, IsCancellable(StatusDelivered))
	assert.False(t, IsCancellable(StatusCancelled))
	assert.False(t, IsCancellable(StatusRefunded))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusConfirmed, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus("archived"))
	assert.False(t, IsValidStatus(""))
}
