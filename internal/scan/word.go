package scan

// WordStart returns the offset where the identifier containing the cursor
// begins, scanning left from pos. Completion replaces text from this offset.
func WordStart(source string, pos int) int {
	pos = clampPos(source, pos)
	for pos > 0 && isIdentChar(source[pos-1]) {
		pos--
	}
	return pos
}

// WordAt returns the identifier under or around the cursor, scanning in both
// directions from pos. Returns "" when the cursor touches no identifier.
func WordAt(source string, pos int) string {
	pos = clampPos(source, pos)

	start := pos
	for start > 0 && isIdentChar(source[start-1]) {
		start--
	}
	end := pos
	for end < len(source) && isIdentChar(source[end]) {
		end++
	}
	if start == end {
		return ""
	}
	return source[start:end]
}
