package compare

import (
	"fmt"
	"io"
	"strings"

	"treedelta/internal/index"
)

const indentUnit = "    "

// WriteReport renders the delta tree in the indented list form:
//
//	- `/`
//	    - `d/`
//	        - `a` Changed
//	    - `e` RenamedFrom `a`
//
// Directory names end in "/". The state is omitted for Same containers and for
// New entries carrying provenance.
func WriteReport(w io.Writer, root *Delta) error {
	return writeDelta(w, root, 0)
}

// FormatReport returns the rendering of WriteReport as a string.
func FormatReport(root *Delta) string {
	var sb strings.Builder
	_ = WriteReport(&sb, root)
	return sb.String()
}

func writeDelta(w io.Writer, d *Delta, depth int) error {
	if _, err := io.WriteString(w, strings.Repeat(indentUnit, depth)+formatEntry(d)+"\n"); err != nil {
		return err
	}
	for _, child := range d.children {
		if err := writeDelta(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func formatEntry(d *Delta) string {
	name := d.name
	if d.dir {
		name += "/"
	}
	line := "- `" + name + "`"

	p, relocated := d.Provenance()
	if d.state != Same && !(d.state == New && relocated) {
		line += " " + string(d.state)
	}
	if relocated {
		line += fmt.Sprintf(" %s `%s`", p.Kind, p.From)
	}
	return line
}

// WriteDuplicates renders duplicate groups, or "<no-duplicates>" when there
// are none.
func WriteDuplicates(w io.Writer, dups []index.Duplicate) error {
	if len(dups) == 0 {
		_, err := io.WriteString(w, "<no-duplicates>\n")
		return err
	}

	var sb strings.Builder
	sb.WriteString("- Duplicates\n")
	for _, dup := range dups {
		sb.WriteString(indentUnit + "- " + string(dup.Digest) + "\n")
		for _, path := range dup.Paths {
			sb.WriteString(indentUnit + indentUnit + "- `" + path + "`\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatDuplicates returns the rendering of WriteDuplicates as a string.
func FormatDuplicates(dups []index.Duplicate) string {
	var sb strings.Builder
	_ = WriteDuplicates(&sb, dups)
	return sb.String()
}

// Summary counts the entries of a delta tree. Containers are not counted.
type Summary struct {
	New         int
	Deleted     int
	Changed     int
	KindChanged int
	Renamed     int
	Moved       int
}

// Summarize counts every entry below root.
func Summarize(root *Delta) Summary {
	var s Summary
	root.Walk(func(d *Delta) {
		if p, ok := d.Provenance(); ok {
			switch p.Kind {
			case RenamedFrom:
				s.Renamed++
			case MovedFrom:
				s.Moved++
			}
			if d.state == New {
				return
			}
		}
		switch d.state {
		case New:
			s.New++
		case Deleted:
			s.Deleted++
		case Changed:
			s.Changed++
		case FileToDir, DirToFile:
			s.KindChanged++
		}
	})
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%d new, %d deleted, %d changed, %d kind changed, %d renamed, %d moved",
		s.New, s.Deleted, s.Changed, s.KindChanged, s.Renamed, s.Moved)
}
