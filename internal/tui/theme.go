package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme/palette helpers.
//
// The presenter toggles between a light and a dark palette at runtime, so
// colours are declared as light/dark pairs and resolved against the current
// flag instead of Lip Gloss's background detection.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorSurfaceFg  = ac("235", "252")
	colorMuted      = ac("240", "243")
	colorAccent     = ac("27", "62")
	colorAccentFg   = ac("255", "235")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorControlBg  = ac("252", "235")
)

func pick(c lipgloss.AdaptiveColor, dark bool) lipgloss.Color {
	if dark {
		return lipgloss.Color(c.Dark)
	}
	return lipgloss.Color(c.Light)
}

type palette struct {
	dark bool
}

func (p palette) text() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(pick(colorSurfaceFg, p.dark))
}

func (p palette) muted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(pick(colorMuted, p.dark))
	// Faint text on light terminals often becomes illegible.
	if p.dark {
		st = st.Faint(true)
	}
	return st
}

func (p palette) badge() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(pick(colorAccentFg, p.dark)).
		Background(pick(colorAccent, p.dark)).
		Padding(0, 1)
}

func (p palette) selected() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(pick(colorSelectedFg, p.dark)).
		Background(pick(colorSelectedBg, p.dark)).
		Bold(true)
}

// applyColorProfilePreference picks Lip Gloss's colour profile. NO_COLOR
// forces plain text; CLICOLOR is not consulted because it can strip colour from
// a full-screen program. COLORTERM and TERM may upgrade the detected profile.
func applyColorProfilePreference() {
	if os.Getenv("NO_COLOR") != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	if profile != termenv.Ascii {
		switch ct := strings.ToLower(os.Getenv("COLORTERM")); {
		case strings.Contains(ct, "truecolor"), strings.Contains(ct, "24bit"):
			profile = termenv.TrueColor
		case profile == termenv.ANSI && strings.Contains(strings.ToLower(os.Getenv("TERM")), "256color"):
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// initialDark resolves the starting theme.
//
// Priority:
// 1) theme=light|dark (remembered per deck, then config)
// 2) COLORFGBG heuristic ("fg;bg", bg >= 7 is a light background)
// 3) Lip Gloss's background detection
func initialDark(theme string) bool {
	switch strings.ToLower(strings.TrimSpace(theme)) {
	case "dark":
		return true
	case "light":
		return false
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return bg < 7
		}
	}
	return lipgloss.HasDarkBackground()
}
