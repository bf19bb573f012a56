package timeline

// ChunkHeights splits a spacer of height h into bounded blocks, each at most
// chunkMax, whose heights sum exactly to h. Some rendering surfaces misbehave
// above a platform-specific height ceiling, so outsized spacers are never
// emitted as a single block. A non-positive height yields no chunks.
func ChunkHeights(h, chunkMax int) []int {
	if h <= 0 {
		return nil
	}
	if chunkMax <= 0 {
		chunkMax = defaultChunkMax
	}
	n := ceilDiv(h, chunkMax)
	chunks := make([]int, 0, n)
	for h > 0 {
		c := h
		if c > chunkMax {
			c = chunkMax
		}
		chunks = append(chunks, c)
		h -= c
	}
	return chunks
}
