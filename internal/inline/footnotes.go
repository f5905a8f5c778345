package inline

import "strconv"

// Footnotes numbers footnote names in first-reference order. References
// allocate; definitions only look up, so a definition may textually precede
// or follow its references without affecting numbering.
type Footnotes struct {
	numbers map[string]int
	count   int
}

func NewFootnotes() *Footnotes {
	return &Footnotes{numbers: make(map[string]int)}
}

// Allocate returns the number for name, assigning the next sequential number
// on first use. Numbers start at 1 and are never reused.
func (f *Footnotes) Allocate(name string) int {
	if n, ok := f.numbers[name]; ok {
		return n
	}
	f.count++
	f.numbers[name] = f.count
	return f.count
}

// Lookup returns the allocated number as a string, or the "?" placeholder if
// name was never referenced. It never allocates.
func (f *Footnotes) Lookup(name string) string {
	if n, ok := f.numbers[name]; ok {
		return strconv.Itoa(n)
	}
	return "?"
}
