package idset

import (
	"strconv"
	"strings"
)

// MapFunc is invoked once per literal produced by FormatMap. Returning a
// non-nil error aborts the expansion and FormatMap propagates it.
// Returning stop=true halts the expansion cleanly after this invocation.
type MapFunc func(literal string) (stop bool, err error)

// segment is either a literal run of text or a bracket group whose raw
// text (including the brackets) decodes as an idset.
type segment struct {
	literal string
	isGroup bool
	raw     string
}

// FormatMap interprets pattern as zero or more "[...]" idset groups
// interleaved with literal text. For every combination of the Cartesian
// product across groups (row-major, left to right, ascending id order
// within each group), it substitutes the chosen id into the template and
// invokes fn with the resulting literal.
//
// A pattern with no brackets, or with brackets that don't form a single
// well-formed "[...]" group (dangling "[", dangling "]", or "]["), is
// treated as a literal and emitted once unchanged.
//
// Returns the number of successful invocations, or an error if fn or
// group parsing failed.
func FormatMap(pattern string, fn MapFunc) (int, error) {
	segs, ok := tokenizePattern(pattern)
	if !ok {
		if _, err := fn(pattern); err != nil {
			return 0, err
		}
		return 1, nil
	}

	groups := make([]*Idset, 0, len(segs))
	for _, s := range segs {
		if !s.isGroup {
			continue
		}
		g, err := Decode(s.raw)
		if err != nil {
			return 0, err
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		if _, err := fn(pattern); err != nil {
			return 0, err
		}
		return 1, nil
	}

	values := make([]uint32, len(groups))
	count, _, err := expandGroups(segs, groups, values, 0, fn)
	return count, err
}

// expandGroups recurses over groups[gi:], fixing one id per group before
// descending, and builds+emits the literal once every group has a value.
func expandGroups(segs []segment, groups []*Idset, values []uint32, gi int, fn MapFunc) (int, bool, error) {
	if gi == len(groups) {
		literal := buildLiteral(segs, values)
		stop, err := fn(literal)
		if err != nil {
			return 0, true, err
		}
		return 1, stop, nil
	}

	total := 0
	g := groups[gi]
	for id := g.First(); id != InvalidID; id = g.Next(id) {
		values[gi] = id
		n, stop, err := expandGroups(segs, groups, values, gi+1, fn)
		total += n
		if err != nil {
			return total, true, err
		}
		if stop {
			return total, true, nil
		}
	}
	return total, false, nil
}

func buildLiteral(segs []segment, values []uint32) string {
	var buf strings.Builder
	gi := 0
	for _, s := range segs {
		if s.isGroup {
			buf.WriteString(strconv.FormatUint(uint64(values[gi]), 10))
			gi++
			continue
		}
		buf.WriteString(s.literal)
	}
	return buf.String()
}

// tokenizePattern splits pattern into literal and bracket-group segments.
// It reports ok=false if the bracket structure is not well-formed (a
// stray ']', or a '[' with no following ']'), in which case the whole
// pattern should be treated as one literal segment.
func tokenizePattern(pattern string) ([]segment, bool) {
	var segs []segment
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(pattern) {
		c := pattern[i]
		switch c {
		case ']':
			return nil, false
		case '[':
			rest := pattern[i+1:]
			closeIdx := strings.IndexByte(rest, ']')
			if closeIdx < 0 {
				return nil, false
			}
			flush()
			end := i + 1 + closeIdx + 1
			segs = append(segs, segment{isGroup: true, raw: pattern[i:end]})
			i = end
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flush()
	return segs, true
}
