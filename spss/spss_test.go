package spss

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"already valid", "Q1", "Q1"},
		{"dots and underscores kept", "Q1_a.b", "Q1_a.b"},
		{"leading digits dropped", "1Q", "Q"},
		{"leading run only once", "_1a_1", "a_1"},
		{"spaces replaced", "Q 1-b", "Q_1_b"},
		{"non ascii replaced per rune", "Qé", "Q_"},
		{"truncated", "A" + strings.Repeat("b", 80), "A" + strings.Repeat("b", 63)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSanitizer(nil)
			assert.Equal(t, tt.want, s.Sanitize(tt.raw))
		})
	}
}

func TestSanitize_SynthesizesNames(t *testing.T) {
	s := NewSanitizer(nil)
	assert.Equal(t, "VAR_1", s.Sanitize(""))
	assert.Equal(t, "VAR_2", s.Sanitize("123"))
	assert.Equal(t, "Q", s.Sanitize("9Q"))
	assert.Equal(t, uint64(2), s.Synthesized())

	// counters are per instance
	other := NewSanitizer(nil)
	assert.Equal(t, "VAR_1", other.Sanitize("__"))
}

func TestSanitize_Substitutions(t *testing.T) {
	s := NewSanitizer(map[string]string{
		"ab":  "X",
		"abc": "Y",
		"X":   "Z",
		"":    "ignored",
	})
	// longest key wins, and replacements are not re-matched
	assert.Equal(t, "YX_Z", s.Sanitize("abcab X"))
}

func TestSanitize_ValidNames(t *testing.T) {
	plain := NewSanitizer(nil)
	for _, name := range []string{"Q1", "a.b_c", "Z" + strings.Repeat("9", 63)} {
		require.True(t, IsValidName(name))
		assert.Equal(t, name, plain.Sanitize(name))
	}
	assert.False(t, IsValidName("Z"+strings.Repeat("9", 64)))
	assert.False(t, IsValidName("_Q1"))

	// substitutions still apply to names that are already valid
	subbed := NewSanitizer(map[string]string{"Q": "Item"})
	assert.Equal(t, "Item1", subbed.Sanitize("Q1"))
	assert.Equal(t, uint64(0), plain.Synthesized())
}

func TestSanitize_Properties(t *testing.T) {
	inputs := []string{
		"", " ", "Q1", "1", "_x", "héllo wörld", "Q1 - What's up?", "a.b.c",
		strings.Repeat("z", 200), "$${q://QID1/Text}", "\t\nQ", "Z9_",
	}
	s := NewSanitizer(nil)
	for _, in := range inputs {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			out := s.Sanitize(in)
			assert.True(t, IsValidName(out), "sanitized %q to invalid name %q", in, out)
			assert.Equal(t, out, s.Sanitize(out), "not idempotent")
		})
	}
}

func TestSanitize_Concurrent(t *testing.T) {
	s := NewSanitizer(nil)
	const n = 50

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := s.Sanitize("")
			mu.Lock()
			seen[name] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	assert.Equal(t, uint64(n), s.Synthesized())
}

func TestComment(t *testing.T) {
	assert.Equal(t, "/******Create Value Labels for Q3******/.", Comment(OpValueLabels, "Q3"))
}

func TestDeclarations(t *testing.T) {
	got := Declarations("Q1", []Variable{
		{Name: "Q1", Type: Numeric},
		{Name: "Q1_4_TEXT", Type: String},
	})
	want := "/******Create Variable Declarations for Q1******/.\n" +
		"NUMERIC Q1 (F40.0).\n" +
		"STRING Q1_4_TEXT (A2000).\n"
	assert.Equal(t, want, got)
	assert.Empty(t, Declarations("Q1", nil))
}

func TestVariableLabels(t *testing.T) {
	got := VariableLabels("Q2", []Variable{
		{Name: "Q2_1", Label: "Coffee"},
		{Name: "Q2_2", Label: "It''s tea"},
	})
	want := "/******Create Variable Labels for Q2******/.\n" +
		"VARIABLE LABELS\n" +
		"    Q2_1 'Coffee'\n" +
		"    Q2_2 'It''s tea'.\n"
	assert.Equal(t, want, got)
}

func TestValueLabels(t *testing.T) {
	got := ValueLabels("Q3", []ValueLabelSet{
		{Variable: "Q3_1", Labels: []ValueLabel{{"1", "Agree"}, {"2", "Disagree"}}},
		{Variable: "Q3_TEXT"},
		{Variable: "Q3_2", Labels: []ValueLabel{{"1", "Agree"}}},
	})
	want := "/******Create Value Labels for Q3******/.\n" +
		"VALUE LABELS\n" +
		"    Q3_1\n" +
		"        1 'Agree'\n" +
		"        2 'Disagree'\n" +
		"    /Q3_2\n" +
		"        1 'Agree'.\n"
	assert.Equal(t, want, got)
}

func TestValueLabels_Empty(t *testing.T) {
	require.Empty(t, ValueLabels("Q4", nil))
	require.Empty(t, ValueLabels("Q4", []ValueLabelSet{{Variable: "Q4"}}))
}
