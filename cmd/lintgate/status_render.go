package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"lintgate/internal/deps"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	statusLabelWidth = 18
	statusIndent     = "  "
)

var (
	statusColors = map[statusKind]text.Colors{
		statusInfo:  {text.FgBlue},
		statusOK:    {text.FgGreen},
		statusWarn:  {text.FgYellow},
		statusError: {text.FgRed},
	}
	headerColors = text.Colors{text.FgBlue, text.Bold}
)

// renderStatusLine formats one doctor line as "  label:  [KIND] message".
func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	status := "[" + statusKindLabel(kind) + "]"
	if message != "" {
		status += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", status)
	if colorize {
		return statusColors[kind].Sprint(line)
	}
	return line
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func checkStatus(passed bool) statusKind {
	if passed {
		return statusOK
	}
	return statusError
}

// toolStatus grades a probed tool; a missing optional tool only warns.
func toolStatus(dep deps.Status) statusKind {
	switch {
	case dep.Available:
		return statusOK
	case dep.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func toolStateLabel(dep deps.Status) string {
	switch toolStatus(dep) {
	case statusOK:
		return "ok"
	case statusWarn:
		return "missing (optional)"
	default:
		return "missing"
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := "== " + strings.TrimSpace(title) + " =="
	rule := strings.Repeat("-", len(line))
	if colorize {
		return []string{headerColors.Sprint(line), headerColors.Sprint(rule)}
	}
	return []string{line, rule}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
