package main

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// lineSplitter turns drained text chunks into complete lines, keeping the
// unterminated remainder per connection.
type lineSplitter struct {
	mu      sync.Mutex
	partial map[uuid.UUID]string
}

func newLineSplitter() *lineSplitter {
	return &lineSplitter{partial: make(map[uuid.UUID]string)}
}

// feed appends chunk to the remainder kept for id and returns the complete
// lines, without their terminators.
func (ls *lineSplitter) feed(id uuid.UUID, chunk string) []string {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	text := ls.partial[id] + chunk
	cut := strings.LastIndexByte(text, '\n')
	if cut < 0 {
		ls.partial[id] = text
		return nil
	}

	ls.partial[id] = text[cut+1:]

	lines := strings.Split(text[:cut], "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}

	return lines
}

func (ls *lineSplitter) forget(id uuid.UUID) {
	ls.mu.Lock()
	delete(ls.partial, id)
	ls.mu.Unlock()
}
