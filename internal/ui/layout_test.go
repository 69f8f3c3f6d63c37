package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestContentHeight(t *testing.T) {
	l := NewLayout(100, 30)
	if got := l.ContentHeight(); got != 28 {
		t.Errorf("ContentHeight = %d, want 28", got)
	}
}

func TestRenderHeader(t *testing.T) {
	l := NewLayout(80, 24)

	header := l.RenderHeader("notifeed", "octocat", "idle")

	if !strings.Contains(header, "notifeed") || !strings.Contains(header, "@octocat") || !strings.Contains(header, "idle") {
		t.Errorf("unexpected header %q", header)
	}
	if w := lipgloss.Width(header); w != 80 {
		t.Errorf("header width = %d, want 80", w)
	}
}

func TestRenderStatusBarFillsWidth(t *testing.T) {
	l := NewLayout(60, 24)

	bar := l.RenderStatusBar("q quit")
	if w := lipgloss.Width(bar); w != 60 {
		t.Errorf("status bar width = %d, want 60", w)
	}
}
