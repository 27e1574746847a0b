package memory

import (
	"context"
	"testing"

	"github.com/Dwooll94/SWAT-Website-25-sub001/internal/domain/appconfig"
)

func TestAppConfigRepository_SeededEntriesReadable(t *testing.T) {
	t.Parallel()

	repo := NewAppConfigRepository(SeedConfigEntries())

	entry, ok, err := repo.Get(context.Background(), appconfig.KeyEnableEventDisplay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the display switch to be seeded")
	}
	if entry.StringValue() != "false" {
		t.Fatalf("unexpected seeded value: got=%s want=false", entry.StringValue())
	}
	if entry.IsTrue() {
		t.Fatalf("expected a fresh install to start disabled")
	}
}

func TestAppConfigRepository_SetKeepsDescriptionWhenNil(t *testing.T) {
	t.Parallel()

	repo := NewAppConfigRepository(SeedConfigEntries())
	ctx := context.Background()

	seeded, ok, err := repo.Get(ctx, appconfig.KeyTeamNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the team number to be seeded")
	}
	if seeded.Description == "" {
		t.Fatalf("expected the seed to carry a description")
	}

	value := "2345"
	if err := repo.Set(ctx, appconfig.KeyTeamNumber, &value, nil, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := repo.Get(ctx, appconfig.KeyTeamNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the entry to survive the update")
	}
	if got.StringValue() != "2345" {
		t.Fatalf("unexpected value: got=%s want=2345", got.StringValue())
	}
	if got.Description != seeded.Description {
		t.Fatalf("expected a nil description to keep the old one: got=%q want=%q", got.Description, seeded.Description)
	}
	if got.UpdatedBy != "admin" {
		t.Fatalf("unexpected updated by: got=%s want=admin", got.UpdatedBy)
	}
}

func TestAppConfigRepository_SetCreatesMissingKey(t *testing.T) {
	t.Parallel()

	repo := NewAppConfigRepository(nil)
	ctx := context.Background()

	value := "true"
	description := "Show sponsor logos on the home page."
	if err := repo.Set(ctx, "show_sponsors", &value, &description, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := repo.Get(ctx, "show_sponsors")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the new entry to exist")
	}
	if !got.IsTrue() {
		t.Fatalf("unexpected value: got=%s want=true", got.StringValue())
	}
	if got.Description != description {
		t.Fatalf("unexpected description: got=%q", got.Description)
	}
	if got.Encrypted {
		t.Fatalf("expected a plain entry by default")
	}
}

func TestAppConfigRepository_SetRejectsBlankKey(t *testing.T) {
	t.Parallel()

	repo := NewAppConfigRepository(nil)
	if err := repo.Set(context.Background(), "   ", nil, nil, "admin"); err == nil {
		t.Fatalf("expected an error for a blank key")
	}
}

func TestAppConfigRepository_EncryptedFlagSurvivesValueUpdates(t *testing.T) {
	t.Parallel()

	repo := NewAppConfigRepository(SeedConfigEntries())
	ctx := context.Background()

	value := "tba-key-rotated"
	if err := repo.Set(ctx, appconfig.KeyTBAAPIKey, &value, nil, "admin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok, err := repo.Get(ctx, appconfig.KeyTBAAPIKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected the key entry to exist")
	}
	if !got.Encrypted {
		t.Fatalf("expected the encrypted flag to survive the update")
	}
	if got.StringValue() != "tba-key-rotated" {
		t.Fatalf("unexpected value: got=%s", got.StringValue())
	}
}
