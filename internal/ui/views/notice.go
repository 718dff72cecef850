package views

import "fmt"

// Level is the severity of a notice line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// RenderNotice renders a one-off message to the operator.
func RenderNotice(level Level, msg string) string {
	switch level {
	case LevelWarn:
		return WarnStyle.Render("⚠ " + msg)
	case LevelError:
		return ErrorStyle.Render("✖ " + msg)
	default:
		return InfoStyle.Render(msg)
	}
}

func RenderStatus(msg string) string {
	return StatusStyle.Render("● " + msg)
}

// RenderToolStart renders the line shown when a tool is about to run.
func RenderToolStart(desc string) string {
	return ToolStyle.Render("⚙ " + desc)
}

// RenderToolEnd renders a tool outcome. Only the first line of a failure
// is shown.
func RenderToolEnd(name string, failed bool, detail string) string {
	if failed {
		return ErrorStyle.Render(fmt.Sprintf("✖ %s: %s", name, firstLine(detail)))
	}
	return ToolOKStyle.Render("✔ " + name)
}

func RenderThought(text string) string {
	return ThoughtStyle.Render(text)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
