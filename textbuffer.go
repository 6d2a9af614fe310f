package asock

import (
	"sync"
	"unicode/utf8"
)

// TextBuffer accumulates received bytes that the protocol layer has not
// consumed yet. All methods are safe for concurrent use.
type TextBuffer struct {
	mu  sync.Mutex
	buf []byte
}

// Append adds p to the end of the buffer.
func (b *TextBuffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}

	b.mu.Lock()
	b.buf = append(b.buf, p...)
	b.mu.Unlock()
}

// Len returns the number of buffered bytes.
func (b *TextBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.buf)
}

// String returns the buffered text without consuming it.
func (b *TextBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return string(b.buf)
}

// Bytes returns a copy of the buffered bytes without consuming them.
func (b *TextBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]byte, len(b.buf))
	copy(out, b.buf)

	return out
}

// Drain removes and returns the buffered text. A trailing rune whose bytes
// have not all arrived yet stays in the buffer.
func (b *TextBuffer) Drain() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := completeRunes(b.buf)
	out := string(b.buf[:n])
	b.buf = append(b.buf[:0], b.buf[n:]...)

	return out
}

// Reset discards the buffered bytes.
func (b *TextBuffer) Reset() {
	b.mu.Lock()
	b.buf = b.buf[:0]
	b.mu.Unlock()
}

// completeRunes returns the length of the longest prefix of p that does not
// end inside an unfinished UTF-8 sequence.
func completeRunes(p []byte) int {
	// a rune is at most utf8.UTFMax bytes, so only the tail needs checking.
	for i := len(p) - 1; i >= 0 && i >= len(p)-utf8.UTFMax; i-- {
		if utf8.RuneStart(p[i]) {
			if utf8.FullRune(p[i:]) {
				return len(p)
			}

			return i
		}
	}

	return len(p)
}
