package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/idilsaglam/tada/internal/model"
)

// Checklist writes todos as a Markdown task list under a heading naming f.
func Checklist(todos *model.Collection, f model.Filter, remaining int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Todos (%s)\n\n", f)
	if todos.IsEmpty() {
		b.WriteString("_Nothing to show._\n")
	}
	for i, t := range todos.ToArray() {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "%d. [%s] %s\n", i+1, box, escapeMarkdown(t.Title))
	}
	fmt.Fprintf(&b, "\n%s\n", ItemsLeft(remaining))
	return b.String()
}

// RenderMarkdown renders md for the terminal using the theme's glamour style.
func RenderMarkdown(md string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(Current().MarkdownStyle),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`, "#", `\#`,
)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }
