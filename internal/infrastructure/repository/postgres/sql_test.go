package postgres

import (
	"database/sql"
	"testing"
	"time"
)

func TestNullTimeToTimePtr(t *testing.T) {
	t.Run("returns value for valid time", func(t *testing.T) {
		at := time.Date(2025, 3, 12, 9, 30, 0, 0, time.UTC)
		got := nullTimeToTimePtr(sql.NullTime{Time: at, Valid: true})
		if got == nil || !got.Equal(at) {
			t.Fatalf("unexpected time pointer: %v", got)
		}
	})

	t.Run("returns nil for null", func(t *testing.T) {
		if got := nullTimeToTimePtr(sql.NullTime{}); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestNullStringToPtr(t *testing.T) {
	t.Run("returns value for valid string", func(t *testing.T) {
		got := nullStringToPtr(sql.NullString{String: "2025mokc", Valid: true})
		if got == nil || *got != "2025mokc" {
			t.Fatalf("unexpected string pointer: %v", got)
		}
	})

	t.Run("returns nil for null", func(t *testing.T) {
		if got := nullStringToPtr(sql.NullString{}); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestNullInt64ToIntPtr(t *testing.T) {
	t.Run("returns value for valid int", func(t *testing.T) {
		got := nullInt64ToIntPtr(sql.NullInt64{Int64: 3, Valid: true})
		if got == nil || *got != 3 {
			t.Fatalf("unexpected int pointer: %v", got)
		}
	})

	t.Run("returns nil for null", func(t *testing.T) {
		if got := nullInt64ToIntPtr(sql.NullInt64{}); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}

func TestNullFloat64ToPtr(t *testing.T) {
	t.Run("returns value for valid float", func(t *testing.T) {
		got := nullFloat64ToPtr(sql.NullFloat64{Float64: 54.3, Valid: true})
		if got == nil || *got != 54.3 {
			t.Fatalf("unexpected float pointer: %v", got)
		}
	})

	t.Run("returns nil for null", func(t *testing.T) {
		if got := nullFloat64ToPtr(sql.NullFloat64{}); got != nil {
			t.Fatalf("expected nil, got %v", got)
		}
	})
}
