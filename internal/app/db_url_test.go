package app

import (
	"strings"
	"testing"
)

func TestNormalizeDBURL(t *testing.T) {
	t.Parallel()

	t.Run("appends flag when enabled", func(t *testing.T) {
		got := normalizeDBURL("postgres://swat:pw@localhost:5432/swat_website?sslmode=disable", true)
		if !strings.Contains(got, "disable_prepared_binary_result=yes") {
			t.Fatalf("flag missing from url: %q", got)
		}
	})

	t.Run("explicit value wins", func(t *testing.T) {
		in := "postgres://swat:pw@localhost:5432/swat_website?disable_prepared_binary_result=no&sslmode=disable"
		if got := normalizeDBURL(in, true); got != in {
			t.Fatalf("url rewritten: got=%q want=%q", got, in)
		}
	})

	t.Run("disabled leaves url alone", func(t *testing.T) {
		in := "postgres://swat:pw@localhost:5432/swat_website?sslmode=disable"
		if got := normalizeDBURL(in, false); got != in {
			t.Fatalf("url rewritten: got=%q want=%q", got, in)
		}
	})
}

func TestDBNameFromURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		dsn  string
		want string
	}{
		{"url form", "postgres://swat:pw@localhost:5432/swat_website?sslmode=disable", "swat_website"},
		{"key value form", "host=localhost user=postgres dbname=swat_website sslmode=disable", "swat_website"},
		{"quoted key value", `host=localhost dbname="swat_website"`, "swat_website"},
		{"no name", "host=localhost user=postgres", ""},
	}

	for i := 0; i < len(cases); i++ {
		tc := cases[i]
		t.Run(tc.name, func(t *testing.T) {
			if got := dbNameFromURL(tc.dsn); got != tc.want {
				t.Fatalf("unexpected db name: got=%q want=%q", got, tc.want)
			}
		})
	}
}

func TestFormatDBQueryForTrace(t *testing.T) {
	t.Parallel()

	got := formatDBQueryForTrace(" SELECT   *\nFROM event_matches \t WHERE event_key = $1 ")
	want := "SELECT * FROM event_matches WHERE event_key = $1"
	if got != want {
		t.Fatalf("unexpected formatted query: got=%q want=%q", got, want)
	}
}
