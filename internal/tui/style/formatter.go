// Package style holds the lipgloss colors used in command output.
package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// ColorPatchName colors a patch file name
func ColorPatchName(name string) string {
	return fg("6").Render(name)
}

// ColorRef colors a ref name or spec
func ColorRef(ref string) string {
	return fg("5").Render(ref)
}

// ColorCommit colors an abbreviated commit id
func ColorCommit(id string) string {
	return fg("3").Render(ShortID(id))
}

// ColorPath colors a file system path
func ColorPath(path string) string {
	return fg("12").Render(path)
}

// ColorSuccess colors text green
func ColorSuccess(text string) string {
	return fg("2").Render(text)
}

// ColorDim makes text dim/gray
func ColorDim(text string) string {
	return fg("8").Render(text)
}

// ColorDiffLine colors one line of unified diff output
func ColorDiffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return lipgloss.NewStyle().Bold(true).Render(line)
	case strings.HasPrefix(line, "@@"):
		return fg("6").Render(line)
	case strings.HasPrefix(line, "+"):
		return fg("2").Render(line)
	case strings.HasPrefix(line, "-"):
		return fg("1").Render(line)
	default:
		return line
	}
}

// ShortID abbreviates a commit id to seven characters
func ShortID(id string) string {
	if len(id) > 7 {
		return id[:7]
	}
	return id
}
