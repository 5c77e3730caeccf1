// Copyright 2026 The Kanban Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const wrapBreakpoints = " ,.;-+|"

// Markdown renders ticket descriptions as styled terminal text.
// Soft line breaks reflow; fenced code is highlighted with chroma.
type Markdown struct {
	theme    Theme
	parser   goldmark.Markdown
	renderer *lipgloss.Renderer
}

// NewMarkdown returns a renderer using theme. Output always uses the
// ANSI 256 profile: it is destined for the board's alternate screen,
// and auto-detection would strip colour when stdout is not a TTY.
func NewMarkdown(theme Theme) *Markdown {
	renderer := lipgloss.NewRenderer(io.Discard, termenv.WithProfile(termenv.ANSI256))
	renderer.SetColorProfile(termenv.ANSI256)
	return &Markdown{
		theme:    theme,
		parser:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		renderer: renderer,
	}
}

// Render formats input for the given width. Blank input renders as "".
func (m *Markdown) Render(input string, width int) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	width = max(width, 10)
	source := []byte(input)
	document := m.parser.Parser().Parse(text.NewReader(source))
	return m.blocks(document, source, width, "\n\n")
}

func (m *Markdown) style() lipgloss.Style {
	return m.renderer.NewStyle()
}

func (m *Markdown) blocks(parent ast.Node, source []byte, width int, separator string) string {
	var rendered []string
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		if block := m.block(child, source, width); block != "" {
			rendered = append(rendered, block)
		}
	}
	return strings.Join(rendered, separator)
}

func (m *Markdown) block(node ast.Node, source []byte, width int) string {
	switch node := node.(type) {
	case *ast.Heading:
		content := ansi.Strip(m.inline(node, source, inlineStyle{}))
		style := m.style().Bold(true).Foreground(m.theme.HeaderForeground)
		if node.Level == 1 {
			style = style.Underline(true)
		}
		return ansi.Wrap(style.Render(content), width, wrapBreakpoints)

	case *ast.Paragraph, *ast.TextBlock:
		return ansi.Wrap(m.inline(node, source, inlineStyle{}), width, wrapBreakpoints)

	case *ast.FencedCodeBlock:
		return m.highlight(segmentText(node.Lines(), source), string(node.Language(source)))

	case *ast.CodeBlock:
		return m.highlight(segmentText(node.Lines(), source), "")

	case *ast.HTMLBlock:
		faint := m.style().Foreground(m.theme.FaintText)
		return faint.Render(strings.TrimSpace(segmentText(node.Lines(), source)))

	case *ast.Blockquote:
		bar := m.style().Foreground(m.theme.BorderColor).Render("│ ")
		return prefixLines(m.blocks(node, source, width-2, "\n\n"), bar, bar)

	case *ast.List:
		number := node.Start
		separator := "\n"
		if !node.IsTight {
			separator = "\n\n"
		}
		var items []string
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			bullet := "• "
			if node.IsOrdered() {
				bullet = fmt.Sprintf("%d. ", number)
				number++
			}
			indent := strings.Repeat(" ", ansi.StringWidth(bullet))
			body := m.blocks(item, source, width-len(indent), "\n")
			items = append(items, prefixLines(body, bullet, indent))
		}
		return strings.Join(items, separator)

	case *ast.ThematicBreak:
		return m.style().Foreground(m.theme.BorderColor).Render(strings.Repeat("─", width))

	case *extast.Table:
		return m.table(node, source, width)
	}
	return m.blocks(node, source, width, "\n")
}

func (m *Markdown) table(table *extast.Table, source []byte, width int) string {
	divider := m.style().Foreground(m.theme.BorderColor).Render(" │ ")
	var rows []string
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		header := row.Kind() == extast.KindTableHeader
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, m.inline(cell, source, inlineStyle{bold: header}))
		}
		rows = append(rows, ansi.Truncate(strings.Join(cells, divider), width, "…"))
	}
	return strings.Join(rows, "\n")
}

type inlineStyle struct {
	bold   bool
	italic bool
	strike bool
}

func (m *Markdown) styled(content string, style inlineStyle) string {
	rendered := m.style().Foreground(m.theme.NormalText)
	if style.bold {
		rendered = rendered.Bold(true)
	}
	if style.italic {
		rendered = rendered.Italic(true)
	}
	if style.strike {
		rendered = rendered.Strikethrough(true)
	}
	return rendered.Render(content)
}

func (m *Markdown) inline(parent ast.Node, source []byte, style inlineStyle) string {
	var out strings.Builder
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch child := child.(type) {
		case *ast.Text:
			out.WriteString(m.styled(string(child.Segment.Value(source)), style))
			if child.HardLineBreak() {
				out.WriteString("\n")
			} else if child.SoftLineBreak() {
				out.WriteString(" ")
			}
		case *ast.String:
			out.WriteString(m.styled(string(child.Value), style))
		case *ast.Emphasis:
			nested := style
			if child.Level >= 2 {
				nested.bold = true
			} else {
				nested.italic = true
			}
			out.WriteString(m.inline(child, source, nested))
		case *extast.Strikethrough:
			nested := style
			nested.strike = true
			out.WriteString(m.inline(child, source, nested))
		case *ast.CodeSpan:
			var code strings.Builder
			for part := child.FirstChild(); part != nil; part = part.NextSibling() {
				if textNode, ok := part.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(source))
				}
			}
			out.WriteString(m.style().Foreground(m.theme.MatchHighlight).Render(code.String()))
		case *ast.Link:
			out.WriteString(m.inline(child, source, style))
			if destination := string(child.Destination); destination != "" {
				out.WriteString(" " + m.style().Foreground(m.theme.LinkForeground).Render("("+destination+")"))
			}
		case *ast.AutoLink:
			out.WriteString(m.style().Foreground(m.theme.LinkForeground).Render(string(child.URL(source))))
		case *ast.Image:
			alt := ansi.Strip(m.inline(child, source, style))
			out.WriteString(m.style().Foreground(m.theme.FaintText).Render("[" + alt + "]"))
		case *extast.TaskCheckBox:
			if child.IsChecked {
				out.WriteString("[x] ")
			} else {
				out.WriteString("[ ] ")
			}
		case *ast.RawHTML:
		default:
			out.WriteString(m.inline(child, source, style))
		}
	}
	return out.String()
}

// highlight colours code with chroma. Unknown or missing languages
// fall back to faint plain text.
func (m *Markdown) highlight(code, language string) string {
	code = strings.TrimRight(code, "\n")
	faint := m.style().Foreground(m.theme.FaintText)
	if language == "" {
		return faint.Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return faint.Render(code)
	}
	return strings.TrimRight(buffer.String(), "\n")
}

func segmentText(lines *text.Segments, source []byte) string {
	var builder strings.Builder
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		builder.Write(segment.Value(source))
	}
	return builder.String()
}

// prefixLines puts first before the first line and rest before every
// following line.
func prefixLines(content, first, rest string) string {
	lines := strings.Split(content, "\n")
	for index, line := range lines {
		if index == 0 {
			lines[index] = first + line
		} else {
			lines[index] = rest + line
		}
	}
	return strings.Join(lines, "\n")
}
