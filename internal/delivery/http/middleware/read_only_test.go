package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"eventgraph/internal/domain"
)

func TestRequireWritable(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{"plain context", context.Background(), nil},
		{"read-only context", WithReadOnly(context.Background()), domain.ErrMutationNotAllowed},
		{"identity does not unlock", SetUserID(WithReadOnly(context.Background()), "u1"), domain.ErrMutationNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, RequireWritable(tt.ctx), tt.want)
		})
	}
}
