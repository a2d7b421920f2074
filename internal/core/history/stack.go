package history

import (
	"sync"

	"github.com/bethropolis/tint/internal/logger"
)

// DefaultMaxHistory of zero keeps every entry.
const DefaultMaxHistory = 0

// Stack is a LIFO of edits; the most recent entry is always popped first.
type Stack struct {
	entries    []Entry
	head       int // Index of the oldest live entry; earlier slots were evicted
	maxHistory int
	mutex      sync.Mutex
}

// NewStack creates an undo stack. maxHistory <= 0 means unbounded.
func NewStack(maxHistory int) *Stack {
	if maxHistory < 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Stack{maxHistory: maxHistory}
}

// Push records an entry on top of the stack. Past the limit the oldest entry
// is evicted; evicted slots are reclaimed in bulk so Push stays amortized O(1).
func (s *Stack) Push(entry Entry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.entries = append(s.entries, entry)

	if s.maxHistory > 0 && len(s.entries)-s.head > s.maxHistory {
		// Clear the reference so the prior image can be collected.
		s.entries[s.head] = Entry{}
		s.head++
		if s.head >= s.maxHistory {
			n := copy(s.entries, s.entries[s.head:])
			for i := n; i < len(s.entries); i++ {
				s.entries[i] = Entry{}
			}
			s.entries = s.entries[:n]
			s.head = 0
		}
		logger.DebugTagf("history", "Evicted oldest entry (limit %d)", s.maxHistory)
	}

	logger.DebugTagf("history", "Pushed %q (region=%v). Depth: %d", entry.Filter, entry.Region, len(s.entries)-s.head)
}

// Pop removes and returns the most recent entry. ok is false when empty.
func (s *Stack) Pop() (entry Entry, ok bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	n := len(s.entries)
	if n == s.head {
		logger.DebugTagf("history", "Nothing to pop.")
		return Entry{}, false
	}
	entry = s.entries[n-1]
	s.entries[n-1] = Entry{}
	s.entries = s.entries[:n-1]
	if len(s.entries) == s.head {
		s.entries = s.entries[:0]
		s.head = 0
	}

	logger.DebugTagf("history", "Popped %q. Depth: %d", entry.Filter, len(s.entries)-s.head)
	return entry, true
}

// IsEmpty reports whether there is nothing to undo.
func (s *Stack) IsEmpty() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.entries) == s.head
}

// Len returns the number of recorded entries.
func (s *Stack) Len() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.entries) - s.head
}

// Clear drops every entry. Call this when a new source image is loaded.
func (s *Stack) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for i := range s.entries {
		s.entries[i] = Entry{}
	}
	s.entries = s.entries[:0]
	s.head = 0
	logger.DebugTagf("history", "Cleared.")
}
