package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	want := []string{"Dracula", "Nightfox", "Kanagawa", "Slate"}
	if len(names) != len(want) {
		t.Fatalf("ThemeNames() returned %d names, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ThemeNames() = %v, want %v", names, want)
		}
		if _, ok := themes[names[i]]; !ok {
			t.Fatalf("theme %q listed but not defined", names[i])
		}
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Dracula", "Nightfox"},
		{"Kanagawa", "Slate"},
		{"Slate", "Dracula"},
		{"Unknown", "Dracula"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}

func TestAirlineColorCycles(t *testing.T) {
	th := GetTheme("Dracula")
	n := len(th.AirlineColors)
	if got := th.AirlineColor(n); got != th.AirlineColors[0] {
		t.Fatalf("AirlineColor(%d) = %q, want wrap to %q", n, got, th.AirlineColors[0])
	}
	if got := th.AirlineColor(-1); got != th.Text {
		t.Fatalf("AirlineColor(-1) = %q, want text color", got)
	}
	if got := (Theme{Text: "#fff"}).AirlineColor(3); got != "#fff" {
		t.Fatalf("AirlineColor without palette = %q, want text color", got)
	}
}

func TestThemesFillEveryRole(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		roles := map[string]string{
			"Background": th.Background, "Surface": th.Surface, "SurfaceAlt": th.SurfaceAlt,
			"FocusBg": th.FocusBg, "SelectionBg": th.SelectionBg, "SelectionText": th.SelectionText,
			"Border": th.Border, "BorderMuted": th.BorderMuted, "BorderFocus": th.BorderFocus,
			"Text": th.Text, "Muted": th.Muted, "Faint": th.Faint, "Accent": th.Accent,
			"Success": th.Success, "Warning": th.Warning, "Danger": th.Danger,
			"Info": th.Info, "Price": th.Price,
		}
		for role, color := range roles {
			if color == "" {
				t.Errorf("%s: %s is empty", name, role)
			}
		}
		if len(th.AirlineColors) == 0 {
			t.Errorf("%s: no airline colors", name)
		}
	}
}

func TestWithBackgroundKeepsForeground(t *testing.T) {
	th := GetTheme("Nightfox")
	base := th.Styles()
	onBar := base.WithBackground(th.Surface)

	if got, want := onBar.DangerText.GetForeground(), base.DangerText.GetForeground(); got != want {
		t.Fatalf("DangerText foreground = %v, want %v", got, want)
	}
	if !onBar.DangerText.GetBold() {
		t.Fatalf("DangerText lost bold")
	}
	for name, st := range map[string]lipgloss.Style{"Text": onBar.Text, "Logo": onBar.Logo, "Selected": onBar.Selected} {
		if got := st.GetBackground(); got != lipgloss.Color(th.Surface) {
			t.Errorf("%s background = %v, want %s", name, got, th.Surface)
		}
	}
	if got := base.Text.GetBackground(); got == lipgloss.Color(th.Surface) {
		t.Fatalf("WithBackground mutated the receiver")
	}
}
