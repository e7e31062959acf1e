// Copyright 2026 The Warden Invite Authors
// SPDX-License-Identifier: Apache-2.0

package accessrequest

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
)

// noResponse is what GitHub renders for an optional issue form field
// the submitter left blank.
const noResponse = "_No response_"

// ExtractionError reports a required form field that is missing or
// empty. No side effects may be attempted after one.
type ExtractionError struct {
	// Field is the AccessRequest field that could not be filled.
	Field FieldName

	// Label is the section heading that was searched for.
	Label string

	// Reason is "section not found" or "section is empty".
	Reason string
}

func (err *ExtractionError) Error() string {
	return fmt.Sprintf("extracting access request: %s (%q): %s", err.Field, err.Label, err.Reason)
}

const (
	reasonNotFound = "section not found"
	reasonEmpty    = "section is empty"
)

var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

// getMarkdownParser returns the shared goldmark instance. Only its
// parser is used; issue bodies are never rendered.
func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New()
	})
	return markdownParserInstance
}

// section is one marker and the first block that follows it.
type section struct {
	label    string // folded marker text
	value    string
	captured bool
}

// Extract parses an issue form body into an AccessRequest. See the
// package documentation for the section rules.
func Extract(body string, form Form) (*AccessRequest, error) {
	source := []byte(normalizeBody(body))
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	entries := form.fields()
	labels := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.field.Label != "" {
			labels[foldLabel(entry.field.Label)] = true
		}
	}

	sections := splitSections(document, source, labels)

	request := &AccessRequest{}
	for _, entry := range entries {
		if entry.field.Label == "" {
			continue
		}
		value, found := lookupSection(sections, foldLabel(entry.field.Label))
		if entry.field.Required {
			if !found {
				return nil, &ExtractionError{Field: entry.name, Label: entry.field.Label, Reason: reasonNotFound}
			}
			if value == "" {
				return nil, &ExtractionError{Field: entry.name, Label: entry.field.Label, Reason: reasonEmpty}
			}
		}
		entry.set(request, value)
	}

	// A bare "@" in a required username survives the empty check above
	// but strips to nothing.
	if form.Username.Required && request.Username == "" {
		return nil, &ExtractionError{Field: FieldUsername, Label: form.Username.Label, Reason: reasonEmpty}
	}

	return request, nil
}

// splitSections walks the document's top-level blocks. Headings, and
// paragraphs whose whole text is a known label, open a new section;
// the first content block after a marker is that section's value.
// HTML blocks, such as template hint comments, and thematic breaks are
// never values.
func splitSections(document ast.Node, source []byte, labels map[string]bool) []section {
	var sections []section
	for node := document.FirstChild(); node != nil; node = node.NextSibling() {
		switch node.(type) {
		case *ast.HTMLBlock, *ast.ThematicBreak:
			continue
		case *ast.Heading:
			sections = append(sections, section{label: foldLabel(inlineText(node, source))})
			continue
		case *ast.Paragraph:
			if label := foldLabel(inlineText(node, source)); labels[label] {
				sections = append(sections, section{label: label})
				continue
			}
		}

		if len(sections) == 0 {
			continue
		}
		current := &sections[len(sections)-1]
		if current.captured {
			continue
		}
		current.value = blockSource(node, source)
		current.captured = true
	}
	return sections
}

// lookupSection returns the value of the first section with the given
// folded label. The placeholder GitHub uses for blank answers counts
// as empty.
func lookupSection(sections []section, label string) (string, bool) {
	for _, candidate := range sections {
		if candidate.label != label {
			continue
		}
		if candidate.value == noResponse {
			return "", true
		}
		return candidate.value, true
	}
	return "", false
}

// inlineText concatenates the text content of a node's inline
// descendants, so emphasis and code spans around a label do not stop
// it from matching.
func inlineText(node ast.Node, source []byte) string {
	var builder strings.Builder
	ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch inline := child.(type) {
		case *ast.Text:
			builder.Write(inline.Segment.Value(source))
			if inline.SoftLineBreak() || inline.HardLineBreak() {
				builder.WriteByte(' ')
			}
		case *ast.String:
			builder.Write(inline.Value)
		case *ast.AutoLink:
			builder.Write(inline.Label(source))
		}
		return ast.WalkContinue, nil
	})
	return builder.String()
}

// blockSource returns the trimmed source text spanned by a block and
// its descendants. Values keep their raw Markdown so an email written
// as "first_last@agency.gov" is not altered by emphasis parsing.
func blockSource(node ast.Node, source []byte) string {
	start, stop := -1, -1
	ast.Walk(node, func(child ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || child.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := child.Lines()
		if lines == nil || lines.Len() == 0 {
			return ast.WalkContinue, nil
		}
		first, last := lines.At(0), lines.At(lines.Len()-1)
		if start < 0 || first.Start < start {
			start = first.Start
		}
		if last.Stop > stop {
			stop = last.Stop
		}
		return ast.WalkContinue, nil
	})
	if start < 0 {
		return ""
	}
	return strings.TrimSpace(string(source[start:stop]))
}

// foldLabel case-folds a label and collapses its internal whitespace.
// A new Caser is created per call because Casers are stateful.
func foldLabel(label string) string {
	return strings.Join(strings.Fields(cases.Fold().String(label)), " ")
}

// escapeReplacer undoes the escapes a JSON encoder leaves in a body
// that was interpolated without being decoded.
var escapeReplacer = strings.NewReplacer(
	`\r\n`, "\n",
	`\n`, "\n",
	`\r`, "\n",
	`\t`, "\t",
	`\"`, `"`,
	`\\`, `\`,
)

// normalizeBody turns the forms an issue body arrives in into plain
// Markdown: a JSON string literal is decoded, a single-line body with
// literal "\n" escapes is unescaped, and CRLF line endings become LF.
func normalizeBody(body string) string {
	trimmed := strings.TrimSpace(body)
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		var decoded string
		if json.Unmarshal([]byte(trimmed), &decoded) == nil {
			body = decoded
		}
	}
	if !strings.Contains(body, "\n") && strings.Contains(body, `\n`) {
		body = escapeReplacer.Replace(body)
	}
	return strings.ReplaceAll(body, "\r\n", "\n")
}
