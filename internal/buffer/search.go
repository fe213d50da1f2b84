package buffer

import "strings"

func indexRunes(line, q []rune, from int) int {
	for i := max(from, 0); i+len(q) <= len(line); i++ {
		if runesEqual(line[i:i+len(q)], q) {
			return i
		}
	}
	return -1
}

// lastIndexRunes finds the last match starting strictly before limit.
func lastIndexRunes(line, q []rune, limit int) int {
	start := min(limit-1, len(line)-len(q))
	for i := start; i >= 0; i-- {
		if runesEqual(line[i:i+len(q)], q) {
			return i
		}
	}
	return -1
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Find looks for a plain substring starting at from, wrapping around the end
// (or the start when searching backward). Queries spanning lines never match.
func (b *Buffer) Find(query string, from Cursor, forward bool) (start, end Cursor, ok bool) {
	if query == "" || strings.ContainsRune(query, '\n') {
		return Cursor{}, Cursor{}, false
	}
	q := []rune(query)
	from = b.clamp(from)
	n := len(b.lines)
	hit := func(row, col int) (Cursor, Cursor, bool) {
		return Cursor{Row: row, Col: col}, Cursor{Row: row, Col: col + len(q)}, true
	}

	if forward {
		if i := indexRunes(b.lines[from.Row], q, from.Col); i >= 0 {
			return hit(from.Row, i)
		}
		for step := 1; step <= n; step++ {
			row := (from.Row + step) % n
			if i := indexRunes(b.lines[row], q, 0); i >= 0 {
				return hit(row, i)
			}
		}
		return Cursor{}, Cursor{}, false
	}

	if i := lastIndexRunes(b.lines[from.Row], q, from.Col); i >= 0 {
		return hit(from.Row, i)
	}
	for step := 1; step <= n; step++ {
		row := ((from.Row-step)%n + n) % n
		if i := lastIndexRunes(b.lines[row], q, len(b.lines[row])+1); i >= 0 {
			return hit(row, i)
		}
	}
	return Cursor{}, Cursor{}, false
}
