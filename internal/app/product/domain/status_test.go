package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductStatus_IsSellable(t *testing.T) {
	assert.True(t, StatusActive.IsSellable())

	for _, status := range []ProductStatus{StatusDraft, StatusSuspended, StatusOutOfStock, StatusDiscontinued} {
		assert.False(t, status.IsSellable(), string(status))
	}
}

func TestProductStatus_IsModifiable(t *testing.T) {
	for _, status := range []ProductStatus{StatusDraft, StatusActive, StatusSuspended, StatusOutOfStock} {
		assert.True(t, status.IsModifiable(), string(status))
	}

	assert.False(t, StatusDiscontinued.IsModifiable())
}

func TestParseStatus(t *testing.T) {
	t.Run("known values", func(t *testing.T) {
		for _, value := range []string{"DRAFT", "ACTIVE", "SUSPENDED", "OUT_OF_STOCK", "DISCONTINUED"} {
			status, err := ParseStatus(value)
			assert.NoError(t, err)
			assert.Equal(t, ProductStatus(value), status)
		}
	})

	t.Run("unknown value", func(t *testing.T) {
		_, err := ParseStatus("ARCHIVED")
		assert.ErrorIs(t, err, ErrInvalidProductStatus)
	})

	t.Run("case sensitive", func(t *testing.T) {
		_, err := ParseStatus("active")
		assert.ErrorIs(t, err, ErrInvalidProductStatus)
	})
}
