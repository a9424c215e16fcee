package compare

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const (
	fromFileHeader = "--- source"
	toFileHeader   = "+++ target"
)

// splitLines splits on \n, \r\n and \r without keeping terminators. A trailing
// terminator does not produce an empty final line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

// unifiedDiff returns a zero-context unified diff of a against b: a file
// header pair, then one "@@" hunk per contiguous change with its removed lines
// followed by its added lines. Equal inputs yield no lines.
func unifiedDiff(a, b []string) []string {
	if linesEqual(a, b) {
		return nil
	}

	dmp := diffmatchpatch.New()
	charsA, charsB, lineArray := dmp.DiffLinesToChars(joinLines(a), joinLines(b))
	diffs := dmp.DiffMain(charsA, charsB, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	out := []string{fromFileHeader, toFileHeader}

	var (
		i, j           int // positions in a and b
		hunkA, hunkB   int
		removed, added []string
		inHunk         bool
	)
	flush := func() {
		if !inHunk {
			return
		}
		out = append(out, fmt.Sprintf("@@ -%s +%s @@",
			formatRange(hunkA, hunkA+len(removed)),
			formatRange(hunkB, hunkB+len(added))))
		for _, l := range removed {
			out = append(out, "-"+l)
		}
		for _, l := range added {
			out = append(out, "+"+l)
		}
		removed, added, inHunk = nil, nil, false
	}

	for _, d := range diffs {
		lines := diffLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			i += len(lines)
			j += len(lines)
		case diffmatchpatch.DiffDelete:
			if !inHunk {
				hunkA, hunkB, inHunk = i, j, true
			}
			removed = append(removed, lines...)
			i += len(lines)
		case diffmatchpatch.DiffInsert:
			if !inHunk {
				hunkA, hunkB, inHunk = i, j, true
			}
			added = append(added, lines...)
			j += len(lines)
		}
	}
	flush()

	return out
}

// formatRange renders a half-open line range the way unified diff hunk
// headers do: 1-based start, length omitted when it is 1, and an empty range
// anchored on the line before it.
func formatRange(start, stop int) string {
	beginning := start + 1
	length := stop - start
	if length == 1 {
		return fmt.Sprintf("%d", beginning)
	}
	if length == 0 {
		beginning--
	}
	return fmt.Sprintf("%d,%d", beginning, length)
}

func joinLines(lines []string) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// diffLines splits a DiffCharsToLines chunk back into its lines. Every line
// was fed in with a trailing newline, so the chunk always ends with one.
func diffLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
