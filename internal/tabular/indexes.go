package tabular

import "strings"

// IndexesOf returns every offset at or after start where search occurs in subject.
// Overlapping occurrences are all reported.
func IndexesOf(subject string, search string, start int) []int {
	indexes := []int{}
	if len(search) == 0 {
		return indexes
	}
	if start < 0 {
		start = 0
	}

	for start <= len(subject) {
		relativeIndex := strings.Index(subject[start:], search)
		if relativeIndex < 0 {
			break
		}
		nextIndex := start + relativeIndex
		indexes = append(indexes, nextIndex)
		start = nextIndex + 1
	}

	return indexes
}

func sliceColumn(line string, startIndex int, endIndex int) string {
	if startIndex < 0 {
		startIndex = 0
	}
	if endIndex > len(line) || endIndex < 0 {
		endIndex = len(line)
	}
	if startIndex >= endIndex {
		return ""
	}
	return strings.TrimSpace(line[startIndex:endIndex])
}
