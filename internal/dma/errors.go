package dma

// DmaError is returned by the data-path calls (Transmit, Receive) and by
// the observability accessors when a request cannot be satisfied right
// now. All values are transient except FrameTooLarge and InvalidLength,
// which indicate a caller bug rather than a hardware condition.
type DmaError int

const (
	// NoFrameAvailable means the RX ring's current descriptor is still
	// DMA-owned; there is nothing to receive yet.
	NoFrameAvailable DmaError = iota
	// TxBuffersFull means every TX descriptor is DMA-owned; the caller
	// must wait for a completion before submitting again.
	TxBuffersFull
	// BufferTooSmall means the caller's destination slice is shorter
	// than the received frame. The descriptor is left un-recycled so a
	// retry with a larger buffer can still read it.
	BufferTooSmall
	// FrameTooLarge means the frame exceeds the per-instance buffer
	// size; this revision only supports single-descriptor frames.
	FrameTooLarge
	// InvalidLength means a zero-length frame was passed to Transmit.
	InvalidLength
	// ReceiveError means the current RX descriptor reported a frame
	// error, or is a non-terminal fragment of a multi-descriptor frame
	// (unsupported in single-buffer mode). The descriptor has already
	// been recycled so later calls keep making progress.
	ReceiveError
)

func (e DmaError) Error() string {
	switch e {
	case NoFrameAvailable:
		return "dma: no frame available"
	case TxBuffersFull:
		return "dma: tx buffers full"
	case BufferTooSmall:
		return "dma: buffer too small"
	case FrameTooLarge:
		return "dma: frame too large"
	case InvalidLength:
		return "dma: invalid length"
	case ReceiveError:
		return "dma: receive error"
	default:
		return "dma: unknown"
	}
}
