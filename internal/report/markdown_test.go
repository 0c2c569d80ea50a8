package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdownStructure(t *testing.T) {
	src := "# Title\n\n## LEVEL 1 EVALUATION\n\n**SCORE: 8/10**\n\nPlain *italic* and `code` text.\n\n- first\n- **bold** second\n  - nested\n\n1. one\n2. two\n\n---\n\n```\nfenced line\n```\n"
	blocks := ParseMarkdown(src)

	var kinds []BlockKind
	for _, b := range blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []BlockKind{
		BlockHeading, BlockHeading, BlockParagraph, BlockParagraph,
		BlockListItem, BlockListItem, BlockListItem,
		BlockListItem, BlockListItem,
		BlockRule, BlockCode,
	}, kinds)

	assert.Equal(t, 1, blocks[0].Level)
	assert.Equal(t, "Title", blocks[0].PlainText())
	assert.Equal(t, 2, blocks[1].Level)

	require.Len(t, blocks[2].Spans, 1)
	assert.True(t, blocks[2].Spans[0].Bold)
	assert.Equal(t, "SCORE: 8/10", blocks[2].Spans[0].Text)

	para := blocks[3]
	assert.Equal(t, "Plain italic and code text.", para.PlainText())
	var sawItalic, sawCode bool
	for _, s := range para.Spans {
		if s.Italic && s.Text == "italic" {
			sawItalic = true
		}
		if s.Code && s.Text == "code" {
			sawCode = true
		}
	}
	assert.True(t, sawItalic)
	assert.True(t, sawCode)

	assert.Equal(t, "-", blocks[4].Marker)
	assert.Equal(t, 1, blocks[4].Level)
	assert.Equal(t, "bold second", blocks[5].PlainText())
	assert.Equal(t, 2, blocks[6].Level)
	assert.Equal(t, "1.", blocks[7].Marker)
	assert.Equal(t, "2.", blocks[8].Marker)
	assert.Equal(t, "fenced line", blocks[10].PlainText())
}

func TestParseMarkdownTable(t *testing.T) {
	src := "| Criterion | Points |\n|---|---|\n| Go | 3 |\n"
	blocks := ParseMarkdown(src)
	require.Len(t, blocks, 2)
	assert.Equal(t, BlockTableRow, blocks[0].Kind)
	assert.True(t, blocks[0].Header)
	require.Len(t, blocks[1].Cells, 2)
	assert.Equal(t, "Go", blocks[1].Cells[0][0].Text)
}

func TestParseMarkdownSoftBreaksJoin(t *testing.T) {
	blocks := ParseMarkdown("line one\nline two")
	require.Len(t, blocks, 1)
	assert.Equal(t, "line one line two", blocks[0].PlainText())
}

func TestParseMarkdownEmpty(t *testing.T) {
	assert.Empty(t, ParseMarkdown(""))
}
