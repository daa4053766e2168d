package idset

import (
	"strconv"
	"strings"

	"github.com/flux-framework/flux-broker-go/internal/errkind"
)

// Flags controls Encode's output shape. Flags are bit flags; combinations
// outside the documented set are rejected at Encode time.
type Flags uint32

const (
	// Range emits maximal runs of consecutive ids as "lo-hi" instead of
	// one id per comma-separated field.
	Range Flags = 1 << iota

	// Brackets wraps non-empty output in "[...]". Empty idsets still
	// encode to the empty string regardless of this flag.
	Brackets

	// Autogrow is a creation-time-only flag (see New); passing it to
	// Encode is rejected with invalid-argument.
	Autogrow
)

const allEncodeFlags = Range | Brackets

// Decode parses the idset textual grammar: the empty string, or a
// comma-separated sequence of terms (single ids or "lo-hi" ranges, with
// lo <= hi), optionally wrapped in one matching pair of brackets. Ids
// must appear in strictly ascending order with no duplicates, no leading
// zeros, and no characters outside digits, ',', '-', '[', ']'.
func Decode(s string) (*Idset, error) {
	if s == "" {
		return New(0, true), nil
	}

	body := s
	switch {
	case strings.HasPrefix(s, "["):
		if !strings.HasSuffix(s, "]") {
			return nil, errkind.Invalidf("idset %q: unmatched '['", s)
		}
		body = s[1 : len(s)-1]
	case strings.HasSuffix(s, "]"):
		return nil, errkind.Invalidf("idset %q: unmatched ']'", s)
	}
	if strings.ContainsAny(body, "[]") {
		return nil, errkind.Invalidf("idset %q: brackets must balance exactly once", s)
	}
	if body == "" {
		return New(0, true), nil
	}

	result := New(0, true)
	var lastVal uint32
	haveLast := false
	for _, term := range strings.Split(body, ",") {
		lo, hi, err := parseTerm(term)
		if err != nil {
			return nil, err
		}
		if haveLast && lo <= lastVal {
			return nil, errkind.Invalidf("idset %q: ids must be strictly ascending with no duplicates", s)
		}
		if err := result.RangeInsert(lo, hi); err != nil {
			return nil, err
		}
		lastVal = hi
		haveLast = true
	}
	return result, nil
}

// parseTerm parses a single decode term: a bare decimal integer, or a
// "lo-hi" range.
func parseTerm(term string) (lo, hi uint32, err error) {
	if term == "" {
		return 0, 0, errkind.Invalidf("idset term is empty")
	}
	if dash := strings.IndexByte(term, '-'); dash >= 0 {
		loStr, hiStr := term[:dash], term[dash+1:]
		if loStr == "" || hiStr == "" {
			return 0, 0, errkind.Invalidf("idset term %q: dangling '-'", term)
		}
		lo, err = parseDecimal(loStr)
		if err != nil {
			return 0, 0, err
		}
		hi, err = parseDecimal(hiStr)
		if err != nil {
			return 0, 0, err
		}
		if lo > hi {
			return 0, 0, errkind.Invalidf("idset range %q: lo must be <= hi", term)
		}
		return lo, hi, nil
	}
	id, err := parseDecimal(term)
	if err != nil {
		return 0, 0, err
	}
	return id, id, nil
}

// parseDecimal accepts exactly "0" or a non-zero digit followed by
// digits: no leading zeros, no sign, no other characters.
func parseDecimal(s string) (uint32, error) {
	if s == "" {
		return 0, errkind.Invalidf("idset id is empty")
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errkind.Invalidf("idset id %q: not a decimal integer", s)
		}
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, errkind.Invalidf("idset id %q: leading zero", s)
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errkind.Wrap(errkind.InvalidArgument, "idset id "+s+" out of range", err)
	}
	return uint32(v), nil
}

// Encode renders s using the given flags. An empty or nil idset always
// encodes to the empty string.
func Encode(s *Idset, flags Flags) (string, error) {
	if flags&Autogrow != 0 {
		return "", errkind.Invalidf("encode: AUTOGROW is a creation-time-only flag")
	}
	if flags&^allEncodeFlags != 0 {
		return "", errkind.Invalidf("encode: unknown flag bits 0x%x", uint32(flags&^allEncodeFlags))
	}
	if s.Count() == 0 {
		return "", nil
	}

	var buf strings.Builder
	if flags&Brackets != 0 {
		buf.WriteByte('[')
	}
	first := true
	for id := s.First(); id != InvalidID; {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		runEnd := id
		if flags&Range != 0 {
			for {
				nxt := s.Next(runEnd)
				if nxt != InvalidID && nxt == runEnd+1 {
					runEnd = nxt
					continue
				}
				break
			}
		}
		buf.WriteString(strconv.FormatUint(uint64(id), 10))
		if runEnd > id {
			buf.WriteByte('-')
			buf.WriteString(strconv.FormatUint(uint64(runEnd), 10))
		}
		id = s.Next(runEnd)
	}
	if flags&Brackets != 0 {
		buf.WriteByte(']')
	}
	return buf.String(), nil
}

// FormatFirst replaces the first "[]" occurrence in template with the
// decimal rendering of id.
func FormatFirst(template string, id uint32) (string, error) {
	idx := strings.Index(template, "[]")
	if idx < 0 {
		if strings.Contains(template, "][") {
			return "", errkind.Invalidf("format_first %q: reversed brackets", template)
		}
		hasOpen := strings.ContainsRune(template, '[')
		hasClose := strings.ContainsRune(template, ']')
		if hasOpen || hasClose {
			return "", errkind.Invalidf("format_first %q: unmatched bracket", template)
		}
		return "", errkind.Invalidf("format_first %q: missing '[]'", template)
	}
	var buf strings.Builder
	buf.WriteString(template[:idx])
	buf.WriteString(strconv.FormatUint(uint64(id), 10))
	buf.WriteString(template[idx+2:])
	return buf.String(), nil
}

// FormatFirstInto is FormatFirst for a caller-supplied fixed-size buffer,
// mirroring the C idset_format_first(buf, len, ...) convention. It fails
// with the overflow error kind rather than truncating silently.
func FormatFirstInto(dst []byte, template string, id uint32) (int, error) {
	s, err := FormatFirst(template, id)
	if err != nil {
		return 0, err
	}
	if len(dst) < len(s) {
		return 0, errkind.New(errkind.Overflow, "format_first: destination buffer too small")
	}
	return copy(dst, s), nil
}
