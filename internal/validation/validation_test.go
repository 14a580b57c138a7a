package validation

import (
	"errors"
	"testing"
	"time"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 1, false},
		{"42", 42, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseID(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("Expected ErrInvalidID, got %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	for _, bad := range []string{"15/03/2024", "2024-13-01", "yesterday", ""} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q): expected ErrInvalidDate, got %v", bad, err)
		}
	}
}

func TestNormalizeTicker(t *testing.T) {
	got, err := NormalizeTicker(" brk.b ")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got != "BRK.B" {
		t.Errorf("Expected BRK.B, got %s", got)
	}

	for _, bad := range []string{"", "   ", "TOO-LONG-TICKER", "A B", "$AAPL"} {
		if _, err := NormalizeTicker(bad); !errors.Is(err, ErrInvalidTicker) {
			t.Errorf("NormalizeTicker(%q): expected ErrInvalidTicker, got %v", bad, err)
		}
	}
}

func TestError(t *testing.T) {
	var verr Error
	if verr.OrNil() != nil {
		t.Error("Expected nil for empty error")
	}

	verr.Add("limit", "must be non-negative")
	verr.Add("limit", "second message ignored")
	verr.Add("date_from", "invalid date")

	err := verr.OrNil()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if verr.Fields["limit"] != "must be non-negative" {
		t.Errorf("Expected first message to win, got %q", verr.Fields["limit"])
	}
	if err.Error() != "date_from: invalid date; limit: must be non-negative" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
}
