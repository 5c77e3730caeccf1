// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangle of a rendered view with overlay
// lines, starting at (anchorX, anchorY). Truncation is ANSI-aware so
// styling on either side of the overlay survives.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(line))
	}

	for index, overlayLine := range overlayLines {
		row := anchorY + index
		if row < 0 || row >= len(viewLines) {
			continue
		}
		viewLine := viewLines[row]
		viewLineWidth := ansi.StringWidth(viewLine)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
			if pad := anchorX - ansi.StringWidth(prefix); pad > 0 {
				result.WriteString(strings.Repeat(" ", pad))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		if pad := overlayWidth - ansi.StringWidth(overlayLine); pad > 0 {
			result.WriteString(strings.Repeat(" ", pad))
		}
		result.WriteString("\x1b[0m")

		if suffixStart := anchorX + overlayWidth; suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}
		viewLines[row] = result.String()
	}
	return strings.Join(viewLines, "\n")
}

// CenterAnchor returns the top-left corner that centres a box of the
// given size on a screen, clamped to the screen origin.
func CenterAnchor(screenWidth, screenHeight, boxWidth, boxHeight int) (int, int) {
	return max(0, (screenWidth-boxWidth)/2), max(0, (screenHeight-boxHeight)/2)
}

// Box renders a bordered overlay with a title line and body lines,
// padded to a fixed inner width. Body lines wider than the box are
// truncated. The result is ready for SpliceOverlay.
func Box(title string, body []string, innerWidth int, theme Theme) []string {
	innerWidth = max(innerWidth, 10)
	background := lipgloss.NewStyle().
		Background(theme.OverlayBackground).
		Foreground(theme.OverlayForeground)
	titleStyle := background.Bold(true).Foreground(theme.HeaderForeground)

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, padLine(titleStyle.Render(ansi.Truncate(title, innerWidth, "…")), innerWidth, background))
	for _, line := range body {
		lines = append(lines, padLine(ansi.Truncate(line, innerWidth, "…"), innerWidth, background))
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		BorderBackground(theme.OverlayBackground)
	return strings.Split(frame.Render(strings.Join(lines, "\n")), "\n")
}

// padLine surrounds content with one column of padding and fills the
// rest of the inner width with the background style.
func padLine(content string, innerWidth int, background lipgloss.Style) string {
	rightPad := max(0, innerWidth-ansi.StringWidth(content))
	return background.Render(" ") + content + background.Render(strings.Repeat(" ", rightPad+1))
}

// Excerpt returns the first maxLines non-blank lines of body, each
// truncated to maxWidth.
func Excerpt(body string, maxWidth, maxLines int) []string {
	var result []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if ansi.StringWidth(trimmed) > maxWidth {
			trimmed = ansi.Truncate(trimmed, maxWidth, "…")
		}
		result = append(result, trimmed)
		if len(result) >= maxLines {
			break
		}
	}
	return result
}
