package prefix_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raikerian/chimera/pkg/prefix"
)

func drain(t *testing.T, args *prefix.Arguments) []string {
	t.Helper()

	return args.Rest()
}

func TestParse(t *testing.T) {
	t.Run("SimpleCommand", func(t *testing.T) {
		parsed, ok := prefix.Parse(";echo hello world", ";")
		require.True(t, ok)
		assert.Equal(t, "echo", parsed.Command)

		args := parsed.Arguments()
		tok, ok := args.Next()
		require.True(t, ok)
		assert.Equal(t, "hello", tok)
		assert.Equal(t, "world", args.Remainder())

		tok, ok = args.Next()
		require.True(t, ok)
		assert.Equal(t, "world", tok)
		assert.Equal(t, "", args.Remainder())

		_, ok = args.Next()
		assert.False(t, ok)
		assert.Equal(t, "", args.Remainder())
	})

	t.Run("ExtraSpaces", func(t *testing.T) {
		parsed, ok := prefix.Parse("!play  song  title with spaces  ", "!")
		require.True(t, ok)
		assert.Equal(t, "play", parsed.Command)

		args := parsed.Arguments()
		expected := []struct{ token, remainder string }{
			{"song", "title with spaces"},
			{"title", "with spaces"},
			{"with", "spaces"},
			{"spaces", ""},
		}
		for _, step := range expected {
			tok, ok := args.Next()
			require.True(t, ok)
			assert.Equal(t, step.token, tok)
			assert.Equal(t, step.remainder, args.Remainder())
		}

		_, ok = args.Next()
		assert.False(t, ok)
	})

	t.Run("SpacesAfterPrefix", func(t *testing.T) {
		parsed, ok := prefix.Parse("!  spaced_cmd arg1 arg2", "!")
		require.True(t, ok)
		assert.Equal(t, "spaced_cmd", parsed.Command)
		assert.Equal(t, []string{"arg1", "arg2"}, drain(t, parsed.Arguments()))
	})

	t.Run("NoArguments", func(t *testing.T) {
		for _, text := range []string{";kick", ";kick  "} {
			parsed, ok := prefix.Parse(text, ";")
			require.True(t, ok, text)
			assert.Equal(t, "kick", parsed.Command)

			args := parsed.Arguments()
			_, ok = args.Next()
			assert.False(t, ok)
			assert.Equal(t, "", args.Remainder())
		}
	})

	t.Run("Rejected", func(t *testing.T) {
		cases := map[string]string{
			"no prefix":        "echo hello world",
			"wrong prefix":     "$echo hello world",
			"only prefix":      "!",
			"prefix and space": "!   ",
			"empty":            "",
		}
		for name, text := range cases {
			_, ok := prefix.Parse(text, "!")
			assert.False(t, ok, name)
		}
	})

	t.Run("MultiCharacterPrefix", func(t *testing.T) {
		parsed, ok := prefix.Parse("chi!volume 50", "chi!")
		require.True(t, ok)
		assert.Equal(t, "volume", parsed.Command)
		assert.Equal(t, "50", parsed.ArgumentText())
	})

	t.Run("CommandIsCaseSensitive", func(t *testing.T) {
		parsed, ok := prefix.Parse(";Play x", ";")
		require.True(t, ok)
		assert.Equal(t, "Play", parsed.Command)
	})

	t.Run("NewlineSeparatesCommand", func(t *testing.T) {
		parsed, ok := prefix.Parse(";echo\nline one\nline two\n", ";")
		require.True(t, ok)
		assert.Equal(t, "echo", parsed.Command)
		assert.Equal(t, "line one\nline two", parsed.Arguments().Remainder())
	})
}

func TestArguments(t *testing.T) {
	t.Run("IndependentCursors", func(t *testing.T) {
		parsed, ok := prefix.Parse("!cmd arg1 arg2 arg3", "!")
		require.True(t, ok)

		first := parsed.Arguments()
		tok, _ := first.Next()
		assert.Equal(t, "arg1", tok)
		tok, _ = first.Next()
		assert.Equal(t, "arg2", tok)
		assert.Equal(t, "arg3", first.Remainder())

		second := parsed.Arguments()
		assert.Equal(t, "arg1 arg2 arg3", second.Remainder())
		assert.Equal(t, []string{"arg1", "arg2", "arg3"}, drain(t, second))
		assert.Equal(t, "", second.Remainder())
	})

	t.Run("RemainderIsIdempotent", func(t *testing.T) {
		args := prefix.NewArguments("  one   two three ")
		first := args.Remainder()
		assert.Equal(t, first, args.Remainder())
		assert.Equal(t, first, args.Remainder())

		_, _ = args.Next()
		assert.Equal(t, "two three ", args.Remainder())
		assert.Equal(t, args.Remainder(), args.Remainder())
	})

	t.Run("TokensPlusRemainderReconstructText", func(t *testing.T) {
		inputs := []string{
			"hello world",
			"a  b   c    d",
			"single",
			"\ttabs\tand  spaces mixed\t here",
		}
		for _, input := range inputs {
			normalised := strings.Join(strings.Fields(input), " ")
			for k := 0; k <= len(strings.Fields(input)); k++ {
				args := prefix.NewArguments(strings.TrimRight(input, " \t"))
				var consumed []string
				for range k {
					tok, ok := args.Next()
					require.True(t, ok)
					consumed = append(consumed, tok)
				}

				rebuilt := strings.Join(append(consumed, strings.Fields(args.Remainder())...), " ")
				assert.Equal(t, normalised, rebuilt, "input %q after %d tokens", input, k)
			}
		}
	})

	t.Run("Clone", func(t *testing.T) {
		args := prefix.NewArguments("a b c")
		_, _ = args.Next()

		clone := args.Clone()
		assert.Equal(t, []string{"b", "c"}, clone.Rest())
		assert.Equal(t, "b c", args.Remainder())
	})
}
