package hlslbuild

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a template splicing problem.
type DiagnosticKind uint8

const (
	_ DiagnosticKind = iota
	// DiagMissingFragment is a `${name}` escape with no matching named fragment.
	DiagMissingFragment
	// DiagUnterminatedFragment is a `${` escape with no closing brace on the same line.
	DiagUnterminatedFragment
	// DiagMalformedPredicate is a `$` escape not followed by `predicate:`.
	DiagMalformedPredicate
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagMissingFragment:
		return "missing fragment"
	case DiagUnterminatedFragment:
		return "unterminated fragment"
	case DiagMalformedPredicate:
		return "malformed predicate"
	}
	return fmt.Sprintf("DiagnosticKind(%d)", uint8(k))
}

// Diagnostic locates a problem found while splicing a template.
type Diagnostic struct {
	Kind DiagnosticKind
	// Line and Col are 1-based positions of the offending `$`.
	Line int
	Col  int
	Msg  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Line, d.Col, d.Kind, d.Msg)
}

// Splice expands the `$` escapes of a template:
//
//   - `${name}` is replaced by fragments["${name}"] (or fragments["name"]) inserted as-is.
//     A missing fragment is replaced by a visible `/* Could not find named fragment 'name' */` marker.
//   - `$predicate:` keeps the rest of the line when predicate is in active and
//     comments it out otherwise, including every line of fragments spliced after it. The escape is replaced by spaces (active) or by
//     `//` and spaces (inactive) so the line keeps its length and alignment.
//
// A malformed escape emits an `// ERROR:` comment followed by the offending
// line commented out and scanning resumes at the next line.
func Splice(template string, active FieldSet, fragments map[string]string) string {
	result, _ := SpliceDiagnostics(template, active, fragments)
	return result
}

// SpliceDiagnostics is like [Splice] and additionally returns the problems
// found, in order of appearance. Problems are also reported inline in the
// result as comments.
func SpliceDiagnostics(template string, active FieldSet, fragments map[string]string) (string, []Diagnostic) {
	sp := splicer{
		active:    active,
		fragments: fragments,
		dst:       make([]byte, 0, len(template)+len(template)/2),
	}
	lineno := 0
	for rest, more := template, true; more; {
		var line string
		line, rest, more = strings.Cut(rest, "\n")
		lineno++
		sp.spliceLine(line, lineno)
		if more {
			sp.dst = append(sp.dst, '\n')
		}
	}
	return string(sp.dst), sp.diags
}

type splicer struct {
	active    FieldSet
	fragments map[string]string
	dst       []byte
	diags     []Diagnostic
}

func (sp *splicer) spliceLine(line string, lineno int) {
	start := len(sp.dst)
	i := 0
	commented := false
	for {
		j := strings.IndexByte(line[i:], '$')
		if j < 0 {
			sp.dst = append(sp.dst, line[i:]...)
			return
		}
		j += i
		sp.dst = append(sp.dst, line[i:j]...)
		rest := line[j+1:]
		if strings.HasPrefix(rest, "{") {
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				sp.malformed(start, line, lineno, j, DiagUnterminatedFragment, "unterminated named fragment, missing '}'")
				return
			}
			sp.appendFragment(rest[1:end], lineno, j, commented)
			i = j + 1 + end + 1
			continue
		}
		n := predicateLen(rest)
		if n == 0 || n == len(rest) || rest[n] != ':' {
			sp.malformed(start, line, lineno, j, DiagMalformedPredicate, "expected 'predicate:' after '$'")
			return
		}
		escLen := n + 2 // '$' + predicate + ':'
		if sp.active.Has(rest[:n]) {
			sp.dst = appendSpaces(sp.dst, escLen)
		} else {
			sp.dst = append(sp.dst, "//"...)
			sp.dst = appendSpaces(sp.dst, escLen-2)
			commented = true
		}
		i = j + escLen
	}
}

// appendFragment inserts the named fragment. Fragments spliced after an
// inactive predicate have every line commented out.
func (sp *splicer) appendFragment(name string, lineno, col int, commented bool) {
	text, ok := sp.fragments["${"+name+"}"]
	if !ok {
		text, ok = sp.fragments[name]
	}
	if ok && commented {
		sp.dst = append(sp.dst, strings.ReplaceAll(text, "\n", "\n//")...)
		return
	} else if ok {
		sp.dst = append(sp.dst, text...)
		return
	}
	sp.dst = append(sp.dst, "/* Could not find named fragment '"...)
	sp.dst = append(sp.dst, name...)
	sp.dst = append(sp.dst, "' */"...)
	sp.diags = append(sp.diags, Diagnostic{
		Kind: DiagMissingFragment,
		Line: lineno,
		Col:  col + 1,
		Msg:  fmt.Sprintf("could not find named fragment %q", name),
	})
}

// malformed discards the partially spliced line and replaces it with an error
// comment followed by the original line commented out.
func (sp *splicer) malformed(lineStart int, line string, lineno, col int, kind DiagnosticKind, msg string) {
	d := Diagnostic{Kind: kind, Line: lineno, Col: col + 1, Msg: msg}
	sp.diags = append(sp.diags, d)
	sp.dst = sp.dst[:lineStart]
	sp.dst = append(sp.dst, "// ERROR: "...)
	sp.dst = append(sp.dst, d.String()...)
	sp.dst = append(sp.dst, "\n//"...)
	sp.dst = append(sp.dst, line...)
}

// predicateLen returns the length of the predicate token at the start of s.
func predicateLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && c != '.' && !('a' <= c && c <= 'z') && !('A' <= c && c <= 'Z') && !('0' <= c && c <= '9') {
			return i
		}
	}
	return len(s)
}

func appendSpaces(b []byte, n int) []byte {
	for ; n > 0; n-- {
		b = append(b, ' ')
	}
	return b
}
