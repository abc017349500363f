package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// ExtractText converts raw document bytes into plain text suitable for
// chunking. Plain-text files pass through; Markdown is parsed and
// flattened so headings, emphasis markers, and link syntax do not pollute
// the embeddings. Other formats (PDF, Word) are the business of external
// converters and are rejected here.
func ExtractText(path string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return string(data), nil
	case ".md", ".markdown":
		return markdownToText(data)
	default:
		return "", fmt.Errorf("unsupported document format %q", filepath.Ext(path))
	}
}

// markdownToText renders a Markdown document's visible text: inline
// content with soft breaks, code blocks verbatim, blocks separated by
// blank lines.
func markdownToText(src []byte) (string, error) {
	doc := goldmark.New().Parser().Parse(gtext.NewReader(src))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Text:
			if entering {
				b.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					b.WriteByte('\n')
				}
			}
		case *ast.AutoLink:
			if entering {
				b.Write(node.URL(src))
			}
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					b.Write(seg.Value(src))
				}
				b.WriteString("\n")
			}
		default:
			if !entering && n.Type() == ast.TypeBlock {
				b.WriteString("\n\n")
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("walking markdown AST: %w", err)
	}

	return collapseBlankLines(strings.TrimSpace(b.String())), nil
}

// collapseBlankLines reduces runs of blank lines to a single separator.
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return s
}
