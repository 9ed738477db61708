package mdcode

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var reInfo = regexp.MustCompile(`\s*(\w+)\s*(.*)\s*`)

// Walker is a callback invoked for each fenced code block and inline code
// span found in a Markdown document.
type Walker func(block *Block) error

// Walk parses a Markdown document and calls walker for every fenced code block
// and every inline code span, in document order. The source is not modified.
func Walk(source []byte, walker Walker) error {
	parser := goldmark.DefaultParser()
	reader := text.NewReader(source)
	root := parser.Parse(reader).OwnerDocument()

	return ast.Walk(root, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		node = transformCommentedCodeBlock(node, entering, source)

		var block *Block

		if fcb := asFencedCodeBlock(node, entering); fcb != nil {
			block = extractBlock(fcb, source)
		} else if span := asCodeSpan(node, entering); span != nil {
			block = extractSpan(span, source)
		}

		if block == nil {
			return ast.WalkContinue, nil
		}

		if err := walker(block); err != nil {
			return ast.WalkStop, err
		}

		return ast.WalkContinue, nil
	})
}

func asFencedCodeBlock(node ast.Node, entering bool) *ast.FencedCodeBlock {
	if entering || node.Kind() != ast.KindFencedCodeBlock {
		return nil
	}

	if fcb, ok := node.(*ast.FencedCodeBlock); ok {
		return fcb
	}

	return nil
}

func asCodeSpan(node ast.Node, entering bool) *ast.CodeSpan {
	if !entering || node.Kind() != ast.KindCodeSpan {
		return nil
	}

	if span, ok := node.(*ast.CodeSpan); ok {
		return span
	}

	return nil
}

func extractBlock(fcb *ast.FencedCodeBlock, source []byte) *Block {
	block := &Block{Kind: KindFenced, Lang: extractLang(fcb, source), Code: extractCode(fcb, source)}
	block.StartLine, block.EndLine = extractLines(fcb, source)

	return block
}

func extractSpan(span *ast.CodeSpan, source []byte) *Block {
	var buff bytes.Buffer

	start := -1

	for child := span.FirstChild(); child != nil; child = child.NextSibling() {
		txt, ok := child.(*ast.Text)
		if !ok {
			continue
		}

		if start < 0 {
			start = txt.Segment.Start
		}

		buff.Write(txt.Segment.Value(source))
	}

	block := &Block{Kind: KindSpan, Code: buff.Bytes()}

	if start >= 0 {
		block.StartLine = lineAt(source, start)
		block.EndLine = block.StartLine
	}

	return block
}

func extractLines(fcb *ast.FencedCodeBlock, source []byte) (int, int) {
	var startLine, endLine int

	if fcb.Info != nil {
		startLine = lineAt(source, fcb.Info.Segment.Start)
	} else {
		lines := fcb.Lines()
		if lines.Len() > 0 {
			startLine = lineAt(source, lines.At(0).Start) - 1
		}
	}

	lines := fcb.Lines()
	if lines.Len() > 0 {
		endLine = lineAt(source, lines.At(lines.Len()-1).Stop)
	} else if startLine > 0 {
		endLine = startLine + 1
	}

	return startLine, endLine
}

func lineAt(source []byte, offset int) int {
	line := 1

	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
		}
	}

	return line
}

func extractCode(fcb *ast.FencedCodeBlock, source []byte) []byte {
	var buff bytes.Buffer

	lines := fcb.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)

		buff.Write(seg.Value(source))
	}

	return buff.Bytes()
}

func extractLang(fcb *ast.FencedCodeBlock, source []byte) string {
	if fcb.Info == nil {
		return ""
	}

	all := reInfo.FindSubmatch(fcb.Info.Text(source))
	if len(all) < 2 { //nolint:gomnd
		return ""
	}

	return string(all[1])
}

var (
	reCommentedCodeBlock = regexp.MustCompile(`^\s*(<!--)?\s*<script\s*type=["']text/markdown["']\s*>\s*$`)
	reFences             = regexp.MustCompile("^\\s*```")
)

// transformCommentedCodeBlock turns a fenced block wrapped in a
// <script type="text/markdown"> element back into a fenced code block, so it
// is compared like any other fence.
func transformCommentedCodeBlock(node ast.Node, entering bool, source []byte) ast.Node { //nolint:ireturn
	if entering || node.Kind() != ast.KindHTMLBlock {
		return node
	}

	html, ok := node.(*ast.HTMLBlock)
	if !ok {
		return node
	}

	const minLines = 2

	lines := html.Lines()
	if lines.Len() < minLines {
		return node
	}

	seg := lines.At(0)
	line := seg.Value(source)

	if !reCommentedCodeBlock.Match(line) {
		return node
	}

	seg = lines.At(1)
	line = seg.Value(source)

	loc := reFences.FindIndex(line)
	if loc == nil {
		return node
	}

	info := ast.NewTextSegment(text.NewSegment(seg.Start+loc[1], seg.Stop-1))
	fcb := ast.NewFencedCodeBlock(info)

	seg = lines.At(lines.Len() - 1)
	line = seg.Value(source)

	if !reFences.Match(line) {
		return node
	}

	segs := text.NewSegments()

	for i := 2; i < lines.Len()-1; i++ {
		segs.Append(lines.At(i))
	}

	fcb.SetLines(segs)

	return fcb
}
