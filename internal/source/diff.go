package source

import (
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Summary counts the characters a reload changed.
type Summary struct {
	Inserted int
	Deleted  int
}

// Changed reports whether anything changed.
func (s Summary) Changed() bool { return s.Inserted > 0 || s.Deleted > 0 }

func (s Summary) String() string {
	if !s.Changed() {
		return "no changes"
	}
	return fmt.Sprintf("+%d -%d chars", s.Inserted, s.Deleted)
}

// Summarize diffs two versions of a fragment.
func Summarize(old, updated string) Summary {
	if old == updated {
		return Summary{}
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(old, updated, false))

	var s Summary
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			s.Inserted += n
		case diffmatchpatch.DiffDelete:
			s.Deleted += n
		}
	}
	return s
}
