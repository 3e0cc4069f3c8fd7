package settings

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	st := New(now, "/home/u/Documents")

	got := st.Get()
	want := Settings{DefaultMonth: "March", DefaultSavePath: "/home/u/Documents", Theme: ThemeLight}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestDocumentsDir(t *testing.T) {
	t.Setenv("HOME", "/tmp/someone")
	dir := DocumentsDir()
	if filepath.Base(dir) != "Documents" {
		t.Fatalf("unexpected documents dir %q", dir)
	}
}

func TestParseTheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Theme
		wantErr bool
	}{
		{"light", ThemeLight, false},
		{"dark", ThemeDark, false},
		{" DARK ", ThemeDark, false},
		{"blue", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseTheme(%q) err=%v, wantErr=%v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseTheme(%q)=%q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoreSet(t *testing.T) {
	st := New(time.Now(), "/docs")

	if err := st.Set(OptionDefaultMonth, "July"); err != nil {
		t.Fatal(err)
	}
	if err := st.Set(OptionDefaultSavePath, "/elsewhere"); err != nil {
		t.Fatal(err)
	}
	if err := st.Set(OptionTheme, "dark"); err != nil {
		t.Fatal(err)
	}
	got := st.Get()
	if got.DefaultMonth != "July" || got.DefaultSavePath != "/elsewhere" || got.Theme != ThemeDark {
		t.Fatalf("unexpected settings: %+v", got)
	}

	if err := st.Set(OptionTheme, "sepia"); !errors.Is(err, ErrInvalidTheme) {
		t.Fatalf("expected ErrInvalidTheme, got %v", err)
	}
	if st.Theme() != ThemeDark {
		t.Fatal("invalid theme must not change the current one")
	}

	err := st.Set("fontSize", "12")
	if !errors.Is(err, ErrUnknownOption) || !strings.Contains(err.Error(), "fontSize") {
		t.Fatalf("expected ErrUnknownOption naming the option, got %v", err)
	}
}
