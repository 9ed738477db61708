package mdcode

// Kind tells a fenced code block from an inline code span.
type Kind int

const (
	KindFenced Kind = iota
	KindSpan
)

func (k Kind) String() string {
	if k == KindSpan {
		return "code span"
	}

	return "fenced code block"
}

type Block struct {
	Kind      Kind
	Lang      string
	Code      []byte
	StartLine int
	EndLine   int
}

type Blocks []*Block

// Filter returns the blocks of the given kind, in document order.
func (b Blocks) Filter(kind Kind) Blocks {
	var res Blocks

	for _, block := range b {
		if block.Kind == kind {
			res = append(res, block)
		}
	}

	return res
}
