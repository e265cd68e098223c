package diff

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"schemasync/internal/core"
)

// Named is implemented by types that have a name identifier.
type Named interface {
	GetName() string
}

// sortNamed sorts items by name (case-insensitive), keeping the input order
// for names that only differ in case.
func sortNamed[T Named](items []T) {
	if len(items) <= 1 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].GetName()) < strings.ToLower(items[j].GetName())
	})
}

type statused interface {
	diffStatus() core.DiffStatus
}

func (td *TableDiff) diffStatus() core.DiffStatus      { return td.Status }
func (cd *ColumnDiff) diffStatus() core.DiffStatus     { return cd.Status }
func (id *IndexDiff) diffStatus() core.DiffStatus      { return id.Status }
func (fd *ForeignKeyDiff) diffStatus() core.DiffStatus { return fd.Status }

func filterStatus[T statused](items []T, status core.DiffStatus) []T {
	var out []T
	for _, item := range items {
		if item.diffStatus() == status {
			out = append(out, item)
		}
	}
	return out
}

func countStatus[T statused](items []T, status core.DiffStatus) int {
	n := 0
	for _, item := range items {
		if item.diffStatus() == status {
			n++
		}
	}
	return n
}

// fieldChangeCollector records a change for every field whose values are not equal.
type fieldChangeCollector struct {
	changes Changes
}

func (c *fieldChangeCollector) Add(field string, expected, actual any, equal bool) {
	if equal {
		return
	}
	if c.changes == nil {
		c.changes = Changes{}
	}
	c.changes[field] = Change{Expected: expected, Actual: actual}
}

func (c *fieldChangeCollector) Changes() Changes {
	return c.changes
}

// pairNamed walks expected entries in order followed by actual-only entries
// in actual order, calling fn with whichever sides exist.
func pairNamed[T Named](expected, actual []T, fn func(name string, e, a T, hasE, hasA bool)) {
	var zero T
	seen := make(map[string]struct{}, len(expected))
	for _, e := range expected {
		seen[e.GetName()] = struct{}{}
		a, ok := findNamed(actual, e.GetName())
		fn(e.GetName(), e, a, true, ok)
	}
	for _, a := range actual {
		if _, ok := seen[a.GetName()]; ok {
			continue
		}
		fn(a.GetName(), zero, a, false, true)
	}
}

func findNamed[T Named](items []T, name string) (T, bool) {
	for _, item := range items {
		if item.GetName() == name {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func intPtrValue(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtrValue(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// equalStrings treats nil and empty slices as equal.
func equalStrings(a, b []string) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return slices.Equal(a, b)
}

// defaultsEqual compares default values by their canonical string form so a
// default of 0 parsed from source equals "0" reported by a catalog.
func defaultsEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return canonicalValue(a) == canonicalValue(b)
}

func canonicalValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return "0"
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return canonicalValue(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(x)
	}
}
