package mdcode

// Unfence parses a Markdown document and returns all fenced code blocks and
// inline code spans in document order.
func Unfence(source []byte) (Blocks, error) {
	var blocks Blocks

	err := Walk(source, func(block *Block) error {
		blocks = append(blocks, block)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}
