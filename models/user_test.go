package models

import "testing"

func TestValidTheme(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  bool
	}{
		{"system", ThemeSystem, true},
		{"light", ThemeLight, true},
		{"dark", ThemeDark, true},
		{"sensor", ThemeSensor, true},
		{"unknown", "galaxy", false},
		{"empty", "", false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidTheme(tt.value); got != tt.want {
				t.Fatalf("ValidTheme(%q) = %t, want %t", tt.value, got, tt.want)
			}
		})
	}
}

func TestNormalizeTheme(t *testing.T) {
	t.Parallel()

	if got := NormalizeTheme("  Dark "); got != ThemeDark {
		t.Fatalf("NormalizeTheme returned %q, want %q", got, ThemeDark)
	}

	if got := NormalizeTheme("  invalid  "); got != DefaultTheme {
		t.Fatalf("NormalizeTheme returned %q, want %q", got, DefaultTheme)
	}
}

func TestNormalizeFolderColor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		value string
		want  string
	}{
		{"blue", FolderBlue},
		{" GOLD ", FolderGold},
		{"", DefaultFolderColor},
		{"purple", DefaultFolderColor},
	}

	for _, tt := range cases {
		if got := NormalizeFolderColor(tt.value); got != tt.want {
			t.Fatalf("NormalizeFolderColor(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFolderContentColor(t *testing.T) {
	t.Parallel()

	if got := FolderContentColor(FolderBlack); got != FolderWhite {
		t.Fatalf("expected white text on black folders, got %q", got)
	}
	if got := FolderContentColor(FolderBlue); got != FolderWhite {
		t.Fatalf("expected white text on blue folders, got %q", got)
	}
	if got := FolderContentColor(FolderYellow); got != FolderBlack {
		t.Fatalf("expected black text on yellow folders, got %q", got)
	}
}

func TestFolderColorsReturnsCopy(t *testing.T) {
	t.Parallel()

	colors := FolderColors()
	colors[0] = "mutated"
	if FolderColors()[0] != FolderWhite {
		t.Fatal("expected FolderColors to return a copy")
	}
}
