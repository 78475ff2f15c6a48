package wifi

// assembler fills a caller-owned destination buffer from bounded data chunks.
// It never allocates; it is a view over the destination plus a cursor.
type assembler struct {
	dest      []byte
	position  int
	chunkSize int
}

func newAssembler(dest []byte, chunkSize int) *assembler {
	return &assembler{dest: dest, chunkSize: chunkSize}
}

// nextLength returns the size of the next pull, bounded by the chunk size
// and the remaining destination space.
func (b *assembler) nextLength() int {
	if space := b.space(); space < b.chunkSize {
		return space
	}
	return b.chunkSize
}

// append copies data behind the cursor. ErrReceiveOverflow is returned
// without a partial write when data exceeds the remaining space.
func (b *assembler) append(data []byte) error {
	if len(data) > b.space() {
		return ErrReceiveOverflow
	}
	copy(b.dest[b.position:], data)
	b.position += len(data)
	return nil
}

// full reports whether no destination space remains.
func (b *assembler) full() bool {
	return b.position >= len(b.dest)
}

// filled returns the number of bytes written so far.
func (b *assembler) filled() int {
	return b.position
}

func (b *assembler) space() int {
	return len(b.dest) - b.position
}
