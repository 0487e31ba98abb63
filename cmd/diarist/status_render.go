package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"diarist/internal/workflow"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 10
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
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

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// progressPrinter turns workflow milestones into status lines.
func progressPrinter(w io.Writer, colorize bool) workflow.Progress {
	return func(stage, detail string) {
		label, kind, message := describeProgress(stage, detail)
		writeLine(w, renderStatusLine(label, kind, message, colorize))
	}
}

func describeProgress(stage, detail string) (string, statusKind, string) {
	switch stage {
	case "record":
		return "Recording", statusInfo, detail + " (press Enter to stop)"
	case "upload":
		return "Upload", statusOK, detail
	case "submit":
		return "Job", statusInfo, detail
	case "resume":
		return "Resume", statusInfo, detail
	case "status":
		switch detail {
		case "completed":
			return "Status", statusOK, detail
		case "error":
			return "Status", statusError, detail
		default:
			return "Status", statusInfo, detail
		}
	case "output":
		return "Output", statusOK, detail
	default:
		return stage, statusInfo, detail
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
