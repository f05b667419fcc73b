package wm

// MarkedWindows is the keycode-indexed bookmark table behind MarkWindow and
// GotoMarkedWindow. Entries reference views by creation sequence so stale
// marks fail soft after the view closes.
type MarkedWindows struct {
	entries []markedEntry
}

type markedEntry struct {
	keycode   uint32
	createSeq uint64
}

// Set records (or replaces) the mark for a keycode.
func (m *MarkedWindows) Set(keycode uint32, createSeq uint64) bool {
	if keycode == 0 || createSeq == 0 {
		return false
	}
	for i := range m.entries {
		if m.entries[i].keycode == keycode {
			m.entries[i].createSeq = createSeq
			return true
		}
	}
	m.entries = append(m.entries, markedEntry{keycode: keycode, createSeq: createSeq})
	return true
}

// Get returns the marked creation sequence for a keycode.
func (m *MarkedWindows) Get(keycode uint32) (uint64, bool) {
	for _, e := range m.entries {
		if e.keycode == keycode {
			return e.createSeq, true
		}
	}
	return 0, false
}

// Remove drops the mark for a keycode (used when a lookup turns up stale).
func (m *MarkedWindows) Remove(keycode uint32) {
	for i := range m.entries {
		if m.entries[i].keycode == keycode {
			m.entries[i] = m.entries[len(m.entries)-1]
			m.entries = m.entries[:len(m.entries)-1]
			return
		}
	}
}
