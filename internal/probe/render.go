package probe

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/glmprobe/internal/zhipu"
)

const ruleWidth = 50

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

type printer struct {
	w        io.Writer
	markdown bool
}

func (p printer) line(format string, args ...any) {
	_, _ = fmt.Fprintf(p.w, format+"\n", args...)
}

func (p printer) header(label string) {
	p.line("")
	p.line("%s", titleStyle.Render("Test: "+label))
	p.line("%s", strings.Repeat("-", ruleWidth))
}

func (p printer) prompt(prompt string) {
	p.line("Sending request...")
	p.line("%s", sectionStyle.Render("Prompt:"))
	p.line("%s", prompt)
	p.line("")
}

func (p printer) raw(resp *zhipu.Response) {
	p.line("Status: %d", resp.StatusCode)
	p.line("%s", sectionStyle.Render("Raw response:"))
	p.line("%s", prettyJSON(resp.Body))
}

func (p printer) content(content string) {
	p.line("")
	p.line("%s", sectionStyle.Render("Generated content:"))
	if p.markdown {
		if out, err := glamour.Render(content, "auto"); err == nil {
			_, _ = io.WriteString(p.w, out)
			return
		}
	}
	p.line("%s", content)
}

func (p printer) usage(u *zhipu.Usage) {
	p.line("")
	p.line("%s", sectionStyle.Render("Token usage:"))
	p.line("Prompt tokens: %d", u.PromptTokens)
	p.line("Completion tokens: %d", u.CompletionTokens)
	p.line("Total tokens: %d", u.TotalTokens)
}

func (p printer) errorf(format string, args ...any) {
	p.line("")
	p.line("%s", errorStyle.Render("Error: "+fmt.Sprintf(format, args...)))
}

func (p printer) warnf(format string, args ...any) {
	p.line("")
	p.line("%s", warnStyle.Render("Warning: "+fmt.Sprintf(format, args...)))
}

// prettyJSON indents a JSON body, leaving anything else untouched.
func prettyJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}
