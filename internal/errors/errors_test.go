package errors

import (
	"fmt"
	"testing"
)

func TestSiftError_Error(t *testing.T) {
	err := &SiftError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "string not found",
	}

	expected := "NOT_FOUND: string not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("value is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "value is required" {
		t.Errorf("Message = %q, want %q", err.Message, "value is required")
	}
}

func TestNewInvalidFilterValue(t *testing.T) {
	err := NewInvalidFilterValue("min_length", "abc", "an integer")

	if err.Code != ErrInvalidFilterValue {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidFilterValue)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["parameter"] != "min_length" {
		t.Errorf("Details[parameter] = %v, want %q", err.Details["parameter"], "min_length")
	}
	if err.Details["value"] != "abc" {
		t.Errorf("Details[value] = %v, want %q", err.Details["value"], "abc")
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  *SiftError
		code ErrorCode
	}{
		{"unparsable query", NewUnparsableQuery("banana split"), ErrUnparsableQuery},
		{"unparsable number", NewUnparsableNumber("longer than ten characters"), ErrUnparsableNumber},
		{"unparsable letter", NewUnparsableLetter("containing the letter"), ErrUnparsableLetter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Status != 400 {
				t.Errorf("Status = %d, want 400", tt.err.Status)
			}
			if _, ok := tt.err.Details["query"]; !ok {
				t.Error("Details[query] missing")
			}
		})
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("racecar")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["value"] != "racecar" {
		t.Errorf("Details[value] = %v, want %q", err.Details["value"], "racecar")
	}
}

func TestNewAlreadyExists(t *testing.T) {
	err := NewAlreadyExists("racecar")

	if err.Code != ErrAlreadyExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrAlreadyExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
}

func TestNewInvalidValueType(t *testing.T) {
	err := NewInvalidValueType("value", "a string")

	if err.Code != ErrInvalidValueType {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidValueType)
	}
	if err.Status != 422 {
		t.Errorf("Status = %d, want 422", err.Status)
	}
}

func TestNewCancelled(t *testing.T) {
	err := NewCancelled("export")

	if err.Code != ErrCancelled {
		t.Errorf("Code = %q, want %q", err.Code, ErrCancelled)
	}
	if err.Message != "export cancelled" {
		t.Errorf("Message = %q, want %q", err.Message, "export cancelled")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("database connection failed"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Status != 500 {
			t.Errorf("Status = %d, want 500", err.Status)
		}
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "database connection failed" {
			t.Errorf("Details[internal_error] = %q, want %q", err.Details["internal_error"], "database connection failed")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)

		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		if !Is(NewNotFound("x"), ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		if Is(NewNotFound("x"), ErrAlreadyExists) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("non-SiftError", func(t *testing.T) {
		if Is(fmt.Errorf("plain error"), ErrNotFound) {
			t.Error("Is() = true, want false for non-SiftError")
		}
	})

	t.Run("wrapped SiftError", func(t *testing.T) {
		wrapped := fmt.Errorf("line 3: %w", NewAlreadyExists("x"))
		if !Is(wrapped, ErrAlreadyExists) {
			t.Error("Is() = false, want true for wrapped SiftError")
		}
		if Is(wrapped, ErrNotFound) {
			t.Error("Is() = true, want false for wrong code on wrapped SiftError")
		}
	})
}
