package dispatch

import (
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Raikerian/chimera/pkg/prefix"
)

func slashContext(t *testing.T, opts ...discord.CommandInteractionOption) *Context {
	t.Helper()

	data := &discord.CommandInteraction{Name: "test", Options: opts}
	ev := commandEvent(data)

	return NewInteractionContext(&mockMessenger{}, zaptest.NewLogger(t), InteractionInvocation{
		Event: &ev.InteractionEvent,
		Data:  data,
	})
}

func textContext(t *testing.T, content string) *Context {
	t.Helper()

	parsed, ok := prefix.Parse(content, ";")
	require.True(t, ok)

	ev := textEvent(content)
	return NewTextContext(&mockMessenger{}, zaptest.NewLogger(t), TextInvocation{
		Message: &ev.Message,
		Args:    parsed.Arguments(),
		Prefix:  ";",
	})
}

func TestGetArgIntegerOption(t *testing.T) {
	c := slashContext(t, discord.CommandInteractionOption{
		Type:  discord.IntegerOptionType,
		Name:  "position",
		Value: json.Raw("3"),
	})

	v, ok := GetArg[int64](c, "position")
	require.True(t, ok)
	assert.Equal(t, int64(3), v)

	n, ok := GetArg[int](c, "position")
	require.True(t, ok)
	assert.Equal(t, 3, n)
}

func TestGetArgMissingOption(t *testing.T) {
	c := slashContext(t)

	_, ok := GetArg[int64](c, "position")
	assert.False(t, ok)
}

func TestGetArgStringFallback(t *testing.T) {
	c := slashContext(t,
		discord.CommandInteractionOption{Type: discord.IntegerOptionType, Name: "count", Value: json.Raw("42")},
		discord.CommandInteractionOption{Type: discord.StringOptionType, Name: "amount", Value: json.Raw(`"17"`)},
		discord.CommandInteractionOption{Type: discord.StringOptionType, Name: "word", Value: json.Raw(`"abc"`)},
		discord.CommandInteractionOption{Type: discord.BooleanOptionType, Name: "loud", Value: json.Raw("true")},
		discord.CommandInteractionOption{Type: discord.UserOptionType, Name: "who", Value: json.Raw(`"123456789"`)},
	)

	s, ok := GetArg[string](c, "count")
	require.True(t, ok)
	assert.Equal(t, "42", s)

	u, ok := GetArg[uint64](c, "amount")
	require.True(t, ok)
	assert.Equal(t, uint64(17), u)

	_, ok = GetArg[int64](c, "word")
	assert.False(t, ok)

	b, ok := GetArg[bool](c, "loud")
	require.True(t, ok)
	assert.True(t, b)

	id, ok := GetArg[uint64](c, "who")
	require.True(t, ok)
	assert.Equal(t, uint64(123456789), id)
}

func TestGetArgText(t *testing.T) {
	c := textContext(t, ";volume 50 loud and clear")

	v, ok := GetArg[int](c, "level")
	require.True(t, ok)
	assert.Equal(t, 50, v)

	// The token is consumed even when it does not parse.
	_, ok = GetArg[bool](c, "flag")
	assert.False(t, ok)

	rest, ok := c.RemainderArg("rest")
	require.True(t, ok)
	assert.Equal(t, "and clear", rest)

	_, ok = GetArg[string](c, "more")
	assert.False(t, ok)
}

func TestGetArgBoolLiterals(t *testing.T) {
	tests := []struct {
		token string
		want  bool
		ok    bool
	}{
		{token: "true", want: true, ok: true},
		{token: "false", want: false, ok: true},
		{token: "t"},
		{token: "T"},
		{token: "1"},
		{token: "0"},
		{token: "TRUE"},
		{token: "yes"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			c := textContext(t, ";loop "+tt.token)

			got, ok := GetArg[bool](c, "enabled")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemainderArgEmpty(t *testing.T) {
	c := textContext(t, ";play   ")

	_, ok := c.RemainderArg("song")
	assert.False(t, ok)
}

func TestRemainderArgSlash(t *testing.T) {
	c := slashContext(t, discord.CommandInteractionOption{
		Type:  discord.StringOptionType,
		Name:  "song",
		Value: json.Raw(`"never gonna give you up"`),
	})

	song, ok := c.RemainderArg("song")
	require.True(t, ok)
	assert.Equal(t, "never gonna give you up", song)
}
