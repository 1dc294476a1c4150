package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMoreGeneral(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		a    string
		b    string
		want bool
	}{
		"wildcard is broader than a concrete path": {
			a: "Read(*)", b: "Read(/a/b)", want: true,
		},
		"concrete path is not broader than wildcard": {
			a: "Read(/a/b)", b: "Read(*)", want: false,
		},
		"different actions are never ordered": {
			a: "Read(*)", b: "Write(/a/b)", want: false,
		},
		"trailing star prefix covers longer path": {
			a: "Write(/etc/*)", b: "Write(/etc/passwd)", want: true,
		},
		"longer path is not broader than its prefix grant": {
			a: "Write(/etc/passwd)", b: "Write(/etc/*)", want: false,
		},
		"identical grants are not strictly ordered": {
			a: "Read(/a/b)", b: "Read(/a/b)", want: false,
		},
		"identical wildcards are not strictly ordered": {
			a: "Read(*)", b: "Read(*)", want: false,
		},
		"missing pattern on the left": {
			a: "Read", b: "Read(*)", want: false,
		},
		"missing pattern on the right": {
			a: "Read(*)", b: "Read", want: false,
		},
		"prefix without wildcard still orders by length": {
			a: "Read(/a)", b: "Read(/a/b)", want: true,
		},
		"equal-length sibling patterns are unordered": {
			a: "Read(/a/b)", b: "Read(/a/c)", want: false,
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsMoreGeneral(tc.a, tc.b))
		})
	}
}

func TestAction(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		grant string
		want  string
	}{
		"simple grant":          {grant: "Read(*)", want: "Read"},
		"bash grant":            {grant: "Bash(npm test)", want: "Bash"},
		"no parentheses":        {grant: "Read", want: ""},
		"unclosed parenthesis":  {grant: "Read(/a", want: ""},
		"empty action":          {grant: "(x)", want: ""},
		"nested parens in bash": {grant: "Bash(echo $(date))", want: "Bash"},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Action(tc.grant))
		})
	}
}

func TestPatternAndCommand(t *testing.T) {
	t.Parallel()

	t.Run("pattern stops at the first closing paren", func(t *testing.T) {
		t.Parallel()
		pat, ok := Pattern("Bash(echo $(date))")
		assert.True(t, ok)
		assert.Equal(t, "echo $(date", pat)
	})

	t.Run("command spans to the final closing paren", func(t *testing.T) {
		t.Parallel()
		cmd, ok := Command("Bash(echo $(date))")
		assert.True(t, ok)
		assert.Equal(t, "echo $(date)", cmd)
	})

	t.Run("malformed grant yields no pattern", func(t *testing.T) {
		t.Parallel()
		_, ok := Pattern("Read")
		assert.False(t, ok)
		_, ok = Command("Read")
		assert.False(t, ok)
	})
}

func TestDedup(t *testing.T) {
	t.Parallel()

	got := Dedup([]string{"Read(*)", "Write(/a)", "Read(*)", "Write(/a)", "Bash(ls)"})
	assert.Equal(t, []string{"Read(*)", "Write(/a)", "Bash(ls)"}, got)

	assert.Empty(t, Dedup(nil))
}
