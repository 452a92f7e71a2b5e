package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/johnwards/takeout/internal/store"
)

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"not found", store.ErrNotFound, false},
		{"plain", errors.New("boom"), false},
		{"conn done", fmt.Errorf("insert: %w", sql.ErrConnDone), true},
		{"tx done", sql.ErrTxDone, true},
		{"canceled", fmt.Errorf("get: %w", context.Canceled), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, store.IsFatal(tt.err))
		})
	}
}
