package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// BlockKind is the layout class of one rendered block.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockHeading
	BlockListItem
	BlockCode
	BlockRule
	BlockTableRow
)

// Span is a run of inline text with one style.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
}

// Block is a layout unit produced from markdown.
// Level is the heading level for headings and the nesting depth for list items.
type Block struct {
	Kind   BlockKind
	Level  int
	Marker string
	Header bool
	Spans  []Span
	Cells  [][]Span
}

// PlainText joins the span texts.
func (b Block) PlainText() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

// ParseMarkdown converts the supported markdown subset into layout blocks.
// Unsupported constructs degrade to plain paragraphs.
func ParseMarkdown(src string) []Block {
	source := []byte(src)
	doc := markdown.Parser().Parse(text.NewReader(source))
	p := &mdParser{src: source}
	p.children(doc, 0)
	return p.out
}

type mdParser struct {
	src []byte
	out []Block
}

func (p *mdParser) children(n ast.Node, depth int) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		p.block(c, depth)
	}
}

func (p *mdParser) block(n ast.Node, depth int) {
	switch node := n.(type) {
	case *ast.Heading:
		p.emit(Block{Kind: BlockHeading, Level: node.Level, Spans: p.inlines(node)})
	case *ast.Paragraph, *ast.TextBlock:
		p.emit(Block{Kind: BlockParagraph, Level: depth, Spans: p.inlines(node)})
	case *ast.List:
		p.list(node, depth)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			line := strings.TrimRight(string(seg.Value(p.src)), "\r\n")
			p.out = append(p.out, Block{Kind: BlockCode, Level: depth, Spans: []Span{{Text: line, Code: true}}})
		}
	case *ast.ThematicBreak:
		p.out = append(p.out, Block{Kind: BlockRule})
	case *east.Table:
		for row := node.FirstChild(); row != nil; row = row.NextSibling() {
			_, header := row.(*east.TableHeader)
			var cells [][]Span
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, p.inlines(cell))
			}
			p.out = append(p.out, Block{Kind: BlockTableRow, Header: header, Cells: cells})
		}
	case *ast.HTMLBlock:
		// skipped
	default:
		p.children(n, depth)
	}
}

func (p *mdParser) list(l *ast.List, depth int) {
	idx := l.Start
	if idx == 0 {
		idx = 1
	}
	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "-"
		if l.IsOrdered() {
			marker = fmt.Sprintf("%d.", idx)
			idx++
		}
		first := true
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				b := Block{Kind: BlockListItem, Level: depth + 1, Spans: p.inlines(c)}
				if first {
					b.Marker = marker
				}
				p.emit(b)
			default:
				p.block(c, depth+1)
			}
			first = false
		}
		if first {
			p.out = append(p.out, Block{Kind: BlockListItem, Level: depth + 1, Marker: marker})
		}
	}
}

func (p *mdParser) emit(b Block) {
	if b.Kind != BlockListItem && len(b.Spans) == 0 {
		return
	}
	p.out = append(p.out, b)
}

func (p *mdParser) inlines(n ast.Node) []Span {
	var spans []Span
	p.inline(n, Span{}, &spans)
	if len(spans) > 0 {
		spans[0].Text = strings.TrimLeft(spans[0].Text, " ")
	}
	if k := len(spans); k > 0 {
		spans[k-1].Text = strings.TrimRight(spans[k-1].Text, " ")
		if spans[k-1].Text == "" {
			spans = spans[:k-1]
		}
	}
	return spans
}

func (p *mdParser) inline(n ast.Node, style Span, out *[]Span) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			txt := string(node.Segment.Value(p.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				txt += " "
			}
			appendSpan(out, style, txt)
		case *ast.String:
			appendSpan(out, style, string(node.Value))
		case *ast.CodeSpan:
			code := style
			code.Code = true
			var sb strings.Builder
			for gc := node.FirstChild(); gc != nil; gc = gc.NextSibling() {
				if t, ok := gc.(*ast.Text); ok {
					sb.Write(t.Segment.Value(p.src))
				}
			}
			appendSpan(out, code, sb.String())
		case *ast.Emphasis:
			next := style
			if node.Level >= 2 {
				next.Bold = true
			} else {
				next.Italic = true
			}
			p.inline(node, next, out)
		case *ast.AutoLink:
			appendSpan(out, style, string(node.URL(p.src)))
		case *ast.RawHTML:
			// inline html is dropped
		default:
			p.inline(c, style, out)
		}
	}
}

func appendSpan(out *[]Span, style Span, txt string) {
	if txt == "" {
		return
	}
	if k := len(*out); k > 0 {
		last := &(*out)[k-1]
		if last.Bold == style.Bold && last.Italic == style.Italic && last.Code == style.Code {
			last.Text += txt
			return
		}
	}
	style.Text = txt
	*out = append(*out, style)
}
