package ui

import "testing"

func TestGetTheme_KnownAndFallback(t *testing.T) {
	for _, name := range ThemeNames() {
		if got := GetTheme(name); got.Name != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got.Name)
		}
	}
	if got := GetTheme("nope"); got.Name != "Dracula" {
		t.Fatalf("fallback theme = %q, want Dracula", got.Name)
	}
}

func TestNextTheme_CyclesThroughAll(t *testing.T) {
	seen := map[string]bool{}
	name := ThemeNames()[0]
	for range ThemeNames() {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != ThemeNames()[0] {
		t.Fatalf("cycle did not wrap: ended on %q", name)
	}
	if len(seen) != len(ThemeNames()) {
		t.Fatalf("cycle visited %d themes, want %d", len(seen), len(ThemeNames()))
	}
}

func TestNextTheme_UnknownStartsAtFirst(t *testing.T) {
	if got := NextTheme("nope"); got != ThemeNames()[0] {
		t.Fatalf("NextTheme(unknown) = %q", got)
	}
}

func TestStatusStyleFallsBackToMuted(t *testing.T) {
	styles := GetTheme("Dracula").Styles()
	// Must not panic and must render something for unknown statuses.
	if out := styles.StatusStyle("no_such_status").Render("x"); out == "" {
		t.Fatal("empty render for unknown status")
	}
}

func TestPadAndTruncate(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Fatalf("pad = %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ab", 4); got != "ab" {
		t.Fatalf("truncate short = %q", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("truncate zero = %q", got)
	}
}
