package introspect

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	unsignedRe = regexp.MustCompile(`(?i)\s*\bunsigned\b\s*`)
	baseRe     = regexp.MustCompile(`^\s*(\w+)`)
	sizeRe     = regexp.MustCompile(`\(\s*(\d+)\s*(?:,\s*(\d+)\s*)?\)`)
)

// TypeInfo is a raw catalog type string taken apart.
type TypeInfo struct {
	Base      string
	Length    *int
	Precision *int
	Scale     *int
	Unsigned  bool
}

// ParseTypeString splits a type such as "decimal(10,2) unsigned" into its
// lower-cased base name, size arguments and unsigned flag. A single size
// argument is a length, two are precision and scale.
func ParseTypeString(raw string) TypeInfo {
	info := TypeInfo{Unsigned: strings.Contains(strings.ToLower(raw), "unsigned")}
	typ := unsignedRe.ReplaceAllString(raw, " ")

	if m := baseRe.FindStringSubmatch(typ); m != nil {
		info.Base = strings.ToLower(m[1])
	}

	m := sizeRe.FindStringSubmatch(typ)
	if m == nil {
		return info
	}
	first, _ := strconv.Atoi(m[1])
	if m[2] == "" {
		info.Length = &first
		return info
	}
	second, _ := strconv.Atoi(m[2])
	info.Precision, info.Scale = &first, &second
	return info
}

// ParseDefault interprets a catalog default expression the way the dialects
// share: NULL is nil, a quoted literal is its content, numbers become int64
// or float64. Anything else, such as CURRENT_TIMESTAMP, is kept verbatim.
func ParseDefault(raw *string) any {
	if raw == nil {
		return nil
	}
	v := strings.TrimSpace(*raw)
	if strings.EqualFold(v, "null") {
		return nil
	}
	if len(v) >= 2 && v[0] == '\'' && v[len(v)-1] == '\'' {
		return strings.ReplaceAll(v[1:len(v)-1], "''", "'")
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}

// EmptyToNil treats an empty catalog string as absent.
func EmptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
