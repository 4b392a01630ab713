// Package grouping arranges runs into menu sections keyed by status label.
//
// Sections are ordered by the first occurrence of each label. Nothing is
// cached: every query walks the source, so results always reflect the current
// run collection and must not be assumed stable across updates.
package grouping

// Source is an ordered run collection exposing status labels.
type Source interface {
	Len() int
	Status(i int) string
}

// Strings adapts a slice of status labels to Source.
type Strings []string

// Len implements Source.
func (s Strings) Len() int { return len(s) }

// Status implements Source.
func (s Strings) Status(i int) string { return s[i] }

// Section is one status group with the run indexes it contains, in input
// order.
type Section struct {
	Status string
	Runs   []int
}

// Sections computes every section with its rows.
func Sections(src Source) []Section {
	var out []Section
	for i := 0; i < src.Len(); i++ {
		status := src.Status(i)
		k := indexOf(out, status)
		if k < 0 {
			out = append(out, Section{Status: status})
			k = len(out) - 1
		}
		out[k].Runs = append(out[k].Runs, i)
	}
	return out
}

// SectionCount returns the number of distinct status labels.
func SectionCount(src Source) int {
	n := 0
	for i := 0; i < src.Len(); i++ {
		if firstSeen(src, i) {
			n++
		}
	}
	return n
}

// StatusFor returns the label of section k.
func StatusFor(src Source, k int) (string, bool) {
	if k < 0 {
		return "", false
	}
	seen := 0
	for i := 0; i < src.Len(); i++ {
		if !firstSeen(src, i) {
			continue
		}
		if seen == k {
			return src.Status(i), true
		}
		seen++
	}
	return "", false
}

// RowCount returns the number of runs in section k.
func RowCount(src Source, k int) int {
	status, ok := StatusFor(src, k)
	if !ok {
		return 0
	}
	n := 0
	for i := 0; i < src.Len(); i++ {
		if src.Status(i) == status {
			n++
		}
	}
	return n
}

// RunIndex resolves (section, row) to the index of the row-th run carrying
// the section's label.
func RunIndex(src Source, section, row int) (int, bool) {
	status, ok := StatusFor(src, section)
	if !ok || row < 0 {
		return -1, false
	}
	for i := 0; i < src.Len(); i++ {
		if src.Status(i) != status {
			continue
		}
		if row == 0 {
			return i, true
		}
		row--
	}
	return -1, false
}

func firstSeen(src Source, i int) bool {
	status := src.Status(i)
	for j := 0; j < i; j++ {
		if src.Status(j) == status {
			return false
		}
	}
	return true
}

func indexOf(sections []Section, status string) int {
	for k := range sections {
		if sections[k].Status == status {
			return k
		}
	}
	return -1
}
