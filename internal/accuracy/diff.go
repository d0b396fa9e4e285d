package accuracy

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Status tags a diff segment.
type Status string

const (
	StatusUnchanged Status = "unchanged"
	StatusAdded     Status = "added"   // present only in the actual text
	StatusRemoved   Status = "removed" // present only in the expected text
)

// Segment is a run of consecutive tokens sharing one Status.
//
// Whitespace runs align with any other whitespace run, so an unchanged segment
// may hold different spacing on each side. Text always carries the actual-side
// spelling; Expected is set only when the expected side differs.
type Segment struct {
	Text     string `json:"text"`
	Status   Status `json:"status"`
	Expected string `json:"expected,omitempty"`
}

// Len returns the length of the segment text in characters.
func (s Segment) Len() int {
	return utf8.RuneCountInString(s.Text)
}

// DiffWords computes a word-level diff turning expected into actual.
func DiffWords(expected, actual string) []Segment {
	a := tokenize(expected)
	b := tokenize(actual)
	if len(a)+len(b) <= maxTraceTokens {
		return mergeOps(a, b, myers(a, b))
	}
	return mergeOps(a, b, bisectDiff(a, b))
}

// Actual rebuilds the actual text from unchanged and added segments.
func Actual(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		if s.Status != StatusRemoved {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Expected rebuilds the expected text from unchanged and removed segments.
func Expected(segs []Segment) string {
	var sb strings.Builder
	for _, s := range segs {
		switch {
		case s.Status == StatusAdded:
		case s.Status == StatusUnchanged && s.Expected != "":
			sb.WriteString(s.Expected)
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// tokenize splits s into alternating runs of whitespace and non-whitespace.
func tokenize(s string) []string {
	if s == "" {
		return nil
	}
	var tokens []string
	start := 0
	inSpace := false
	for i, r := range s {
		space := isSpace(r)
		if i == 0 {
			inSpace = space
			continue
		}
		if space != inSpace {
			tokens = append(tokens, s[start:i])
			start = i
			inSpace = space
		}
	}
	return append(tokens, s[start:])
}

// isSpace extends unicode.IsSpace with U+FEFF, which editors leave at the
// start of saved files.
func isSpace(r rune) bool {
	return r == '\uFEFF' || unicode.IsSpace(r)
}

func isSpaceToken(tok string) bool {
	return strings.TrimFunc(tok, isSpace) == ""
}

func tokensEqual(x, y string) bool {
	if x == y {
		return true
	}
	return isSpaceToken(x) && isSpaceToken(y)
}

// maxTraceTokens caps the combined token count diffed by myers. Its trace
// grows with the square of the edit distance, so longer inputs go through
// bisectDiff instead.
const maxTraceTokens = 1024

type opKind int

const (
	opEqual opKind = iota
	opInsert
	opDelete
)

// op references a token by index: ai into a for equal/delete, bi into b for
// equal/insert.
type op struct {
	kind   opKind
	ai, bi int
}

// myers returns the shortest edit script from a to b, counting inserts and
// deletes only. Each round keeps a copy of the furthest-reaching x per diagonal
// in the window [-(d+1), d+1], so memory is O(D^2) rather than O(D*(N+M)).
func myers(a, b []string) []op {
	n, m := len(a), len(b)
	maxD := n + m
	offset := maxD + 1
	v := make([]int, 2*maxD+3)

	var trace [][]int
	var final int

search:
	for d := 0; d <= maxD; d++ {
		snap := make([]int, 2*d+3)
		copy(snap, v[offset-d-1:offset+d+2])
		trace = append(trace, snap)

		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[offset+k-1] < v[offset+k+1]) {
				x = v[offset+k+1]
			} else {
				x = v[offset+k-1] + 1
			}
			y := x - k
			for x < n && y < m && tokensEqual(a[x], b[y]) {
				x++
				y++
			}
			v[offset+k] = x
			if x >= n && y >= m {
				final = d
				break search
			}
		}
	}

	at := func(d, k int) int {
		return trace[d][k+d+1]
	}

	ops := make([]op, 0, n+m)
	x, y := n, m
	for d := final; d >= 0; d-- {
		k := x - y
		var prevK int
		if k == -d || (k != d && at(d, k-1) < at(d, k+1)) {
			prevK = k + 1
		} else {
			prevK = k - 1
		}
		prevX := at(d, prevK)
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			ops = append(ops, op{kind: opEqual, ai: x, bi: y})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			ops = append(ops, op{kind: opInsert, bi: y})
		} else {
			x--
			ops = append(ops, op{kind: opDelete, ai: x})
		}
	}

	for i, j := 0, len(ops)-1; i < j; i, j = i+1, j-1 {
		ops[i], ops[j] = ops[j], ops[i]
	}
	return ops
}

// bisectDiff returns a shortest edit script in space linear in len(a)+len(b).
// It splits each range on the middle snake found by running the greedy search
// from both ends at once, then recurses on the two halves.
func bisectDiff(a, b []string) []op {
	bs := &bisector{a: a, b: b, ops: make([]op, 0, len(a)+len(b))}
	bs.diff(0, len(a), 0, len(b))
	return bs.ops
}

type bisector struct {
	a, b []string
	ops  []op
}

func (bs *bisector) diff(a0, a1, b0, b1 int) {
	for a0 < a1 && b0 < b1 && tokensEqual(bs.a[a0], bs.b[b0]) {
		bs.ops = append(bs.ops, op{kind: opEqual, ai: a0, bi: b0})
		a0++
		b0++
	}
	suffix := 0
	for a1 > a0 && b1 > b0 && tokensEqual(bs.a[a1-1], bs.b[b1-1]) {
		a1--
		b1--
		suffix++
	}

	switch {
	case a0 == a1:
		bs.insertAll(b0, b1)
	case b0 == b1:
		bs.deleteAll(a0, a1)
	default:
		if x, y, ok := bs.split(a0, a1, b0, b1); ok {
			bs.diff(a0, x, b0, y)
			bs.diff(x, a1, y, b1)
		} else {
			bs.deleteAll(a0, a1)
			bs.insertAll(b0, b1)
		}
	}

	for i := 0; i < suffix; i++ {
		bs.ops = append(bs.ops, op{kind: opEqual, ai: a1 + i, bi: b1 + i})
	}
}

func (bs *bisector) insertAll(b0, b1 int) {
	for j := b0; j < b1; j++ {
		bs.ops = append(bs.ops, op{kind: opInsert, bi: j})
	}
}

func (bs *bisector) deleteAll(a0, a1 int) {
	for i := a0; i < a1; i++ {
		bs.ops = append(bs.ops, op{kind: opDelete, ai: i})
	}
}

// split finds where the forward and reverse searches over a[a0:a1] and
// b[b0:b1] first overlap and returns the end of the forward snake there. ok is
// false when the ranges share no token.
func (bs *bisector) split(a0, a1, b0, b1 int) (x, y int, ok bool) {
	n, m := a1-a0, b1-b0
	maxD := (n + m + 1) / 2
	offset := maxD
	size := 2*maxD + 2
	fwd := make([]int, size)
	rev := make([]int, size)
	for i := range fwd {
		fwd[i] = -1
		rev[i] = -1
	}
	fwd[offset+1] = 0
	rev[offset+1] = 0

	delta := n - m
	odd := delta%2 != 0
	var fStart, fEnd, rStart, rEnd int

	for d := 0; d < maxD; d++ {
		for k := -d + fStart; k <= d-fEnd; k += 2 {
			ki := offset + k
			var x1 int
			if k == -d || (k != d && fwd[ki-1] < fwd[ki+1]) {
				x1 = fwd[ki+1]
			} else {
				x1 = fwd[ki-1] + 1
			}
			y1 := x1 - k
			for x1 < n && y1 < m && tokensEqual(bs.a[a0+x1], bs.b[b0+y1]) {
				x1++
				y1++
			}
			fwd[ki] = x1
			switch {
			case x1 > n:
				fEnd += 2
			case y1 > m:
				fStart += 2
			case odd:
				ri := offset + delta - k
				if ri >= 0 && ri < size && rev[ri] != -1 && x1 >= n-rev[ri] {
					return a0 + x1, b0 + y1, true
				}
			}
		}

		for k := -d + rStart; k <= d-rEnd; k += 2 {
			ki := offset + k
			var x2 int
			if k == -d || (k != d && rev[ki-1] < rev[ki+1]) {
				x2 = rev[ki+1]
			} else {
				x2 = rev[ki-1] + 1
			}
			y2 := x2 - k
			for x2 < n && y2 < m && tokensEqual(bs.a[a1-1-x2], bs.b[b1-1-y2]) {
				x2++
				y2++
			}
			rev[ki] = x2
			switch {
			case x2 > n:
				rEnd += 2
			case y2 > m:
				rStart += 2
			case !odd:
				fi := offset + delta - k
				if fi >= 0 && fi < size && fwd[fi] != -1 {
					x1 := fwd[fi]
					y1 := x1 - (fi - offset)
					if x1 >= n-x2 {
						return a0 + x1, b0 + y1, true
					}
				}
			}
		}
	}
	return 0, 0, false
}

// mergeOps folds the edit script into segments, joining neighbours that share
// a status.
func mergeOps(a, b []string, ops []op) []Segment {
	var segs []Segment
	var text, expected strings.Builder
	cur := Status("")

	flush := func() {
		if cur == "" {
			return
		}
		seg := Segment{Text: text.String(), Status: cur}
		if cur == StatusUnchanged && expected.String() != seg.Text {
			seg.Expected = expected.String()
		}
		segs = append(segs, seg)
		text.Reset()
		expected.Reset()
	}

	for _, o := range ops {
		var st Status
		switch o.kind {
		case opEqual:
			st = StatusUnchanged
		case opInsert:
			st = StatusAdded
		default:
			st = StatusRemoved
		}
		if st != cur {
			flush()
			cur = st
		}
		switch o.kind {
		case opEqual:
			text.WriteString(b[o.bi])
			expected.WriteString(a[o.ai])
		case opInsert:
			text.WriteString(b[o.bi])
		default:
			text.WriteString(a[o.ai])
		}
	}
	flush()
	return segs
}
