package css

import (
	"sort"

	"cssopt/properties"
)

// lineIndex maps byte offsets to line and column numbers.
type lineIndex struct {
	source string
	data   []byte
	starts []int
}

func newLineIndex(source string, data []byte) *lineIndex {
	starts := []int{0}
	for i, b := range data {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{source: source, data: data, starts: starts}
}

// position returns 1-based location of the first non blank byte at or after
// offset.
func (li *lineIndex) position(offset int) properties.Position {
	for offset < len(li.data) && isSpace(li.data[offset]) {
		offset++
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset })
	return properties.Position{
		Source: li.source,
		Line:   line,
		Column: offset - li.starts[line-1] + 1,
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
