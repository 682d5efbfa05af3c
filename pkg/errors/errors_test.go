package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeShape, "outline has %d points", 10)

	if err.Code != ErrCodeShape {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeShape)
	}

	if err.Message != "outline has 10 points" {
		t.Errorf("Message = %v, want %v", err.Message, "outline has 10 points")
	}

	expected := "SHAPE_ERROR: outline has 10 points"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWithField(t *testing.T) {
	err := New(ErrCodeParameter, "must be within [0, 1]").WithField("crown_density_value")

	expected := "PARAMETER_ERROR [crown_density_value]: must be within [0, 1]"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
	if got := FieldOf(err); got != "crown_density_value" {
		t.Errorf("FieldOf() = %q, want crown_density_value", got)
	}
	if got := FieldOf(errors.New("plain")); got != "" {
		t.Errorf("FieldOf(plain) = %q, want empty", got)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeRasterization, cause, "rasterize failed")

	if err.Code != ErrCodeRasterization {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeRasterization)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodePalette, "test"),
			code:     ErrCodePalette,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodePalette, "test"),
			code:     ErrCodeShape,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeComposition, New(ErrCodeShape, "inner"), "outer"),
			code:     ErrCodeComposition,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("cell: %w", New(ErrCodeParameter, "bad")),
			code:     ErrCodeParameter,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeInvalidScale, "x"), ErrCodeInvalidScale},
		{"plain", errors.New("x"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeShape, "too few points")); got != "too few points" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		code Code
		want bool
	}{
		{ErrCodeShape, true},
		{ErrCodeParameter, true},
		{ErrCodePalette, true},
		{ErrCodeComposition, true},
		{ErrCodeInvalidStyle, true},
		{ErrCodeRasterization, false},
		{ErrCodeInternal, false},
		{ErrCodeNotFound, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := IsValidation(New(tt.code, "x")); got != tt.want {
				t.Errorf("IsValidation(%s) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}
