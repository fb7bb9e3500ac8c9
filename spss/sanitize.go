// Package spss writes statistical-package syntax: variable declarations,
// variable labels, value labels, and the identifiers they reference.
package spss

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync/atomic"
)

// MaxNameLength is the longest variable name the syntax accepts
const MaxNameLength = 64

var (
	invalidStart = regexp.MustCompile(`^[^A-Za-z]+`)
	invalidChars = regexp.MustCompile(`[^A-Za-z0-9_.]`)
	validName    = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]{0,63}$`)
)

// Sanitizer turns arbitrary text into variable names.
// Degenerate input (nothing left after dropping the invalid leading run) gets a
// synthesized VAR_<n> name from a counter owned by the instance, so two
// translations never share numbering. Safe for concurrent use.
type Sanitizer struct {
	counter atomic.Uint64
	subs    map[string]string
	subRE   *regexp.Regexp
}

// NewSanitizer returns a Sanitizer applying subs (substring -> replacement)
// before the final character pass. Longer keys win over their prefixes.
func NewSanitizer(subs map[string]string) *Sanitizer {
	s := &Sanitizer{subs: make(map[string]string, len(subs))}
	keys := make([]string, 0, len(subs))
	for k, v := range subs {
		if k == "" {
			continue
		}
		s.subs[k] = v
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return s
	}

	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	quoted := make([]string, len(keys))
	for i, k := range keys {
		quoted[i] = regexp.QuoteMeta(k)
	}
	s.subRE = regexp.MustCompile(strings.Join(quoted, "|"))
	return s
}

// Sanitize returns a syntax-safe variable name for raw
func (s *Sanitizer) Sanitize(raw string) string {
	if s.subRE == nil && IsValidName(raw) {
		return raw
	}
	name := invalidStart.ReplaceAllString(raw, "")
	if name == "" {
		name = fmt.Sprintf("VAR_%d", s.counter.Add(1))
	}

	name = truncateRunes(name, MaxNameLength)

	// Single pass so one replacement's output is never matched again
	if s.subRE != nil {
		name = s.subRE.ReplaceAllStringFunc(name, func(m string) string {
			return s.subs[m]
		})
	}

	name = invalidChars.ReplaceAllString(name, "_")
	if len(name) > MaxNameLength {
		name = name[:MaxNameLength]
	}
	return name
}

// Synthesized reports how many VAR_<n> names this instance has issued
func (s *Sanitizer) Synthesized() uint64 {
	return s.counter.Load()
}

// IsValidName reports whether name already satisfies the identifier grammar
func IsValidName(name string) bool {
	return validName.MatchString(name)
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
