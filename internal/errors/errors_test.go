package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	cause := fmt.Errorf("unexpected token")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "without cause",
			err:  Input("employees must be numeric"),
			want: "[INPUT_ERROR] employees must be numeric",
		},
		{
			name: "with cause",
			err:  Parsing("seed file", cause),
			want: "[PARSING_ERROR] seed file: unexpected token",
		},
		{
			name: "not found",
			err:  NotFound("variable", "var-1"),
			want: "[NOT_FOUND] variable not found: var-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestIsTypeSeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loading: %w", Config("bad tier order", nil))

	assert.True(t, IsType(err, TypeConfig))
	assert.False(t, IsType(err, TypeParsing))
	assert.False(t, IsType(fmt.Errorf("plain"), TypeConfig))
}

func TestNotFoundCarriesContext(t *testing.T) {
	err := NotFound("industry", "mining")

	assert.Equal(t, "mining", err.Context["industry"])
	assert.True(t, err.Is(TypeNotFound))
}
