package dispatch

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/diamondburned/arikawa/v3/discord"
	"go.uber.org/zap"
)

// Arg lists the types GetArg can extract.
type Arg interface {
	string | int64 | int | uint64 | bool | float64
}

// GetArg extracts the next argument as T.
//
// For text invocations the next token is consumed and parsed; name is unused.
// For slash commands the option called name is projected directly when its
// kind matches T, and otherwise its value is stringified and parsed as T.
// Absent or unparsable arguments report false.
func GetArg[T Arg](c *Context, name string) (T, bool) {
	var zero T

	switch {
	case c.text != nil:
		tok, ok := c.text.Args.Next()
		if !ok {
			return zero, false
		}

		v, err := parseArg[T](tok)
		if err != nil {
			c.logger.Debug("Failed to parse text argument",
				zap.String("name", name), zap.String("token", tok), zap.Error(err))
			return zero, false
		}

		return v, true

	case c.interaction != nil:
		opt, ok := findOption(c.interaction.Data, name)
		if !ok {
			return zero, false
		}

		if v, ok := projectOption[T](opt); ok {
			return v, true
		}

		s, ok := stringifyOption(opt)
		if !ok {
			return zero, false
		}

		v, err := parseArg[T](s)
		if err != nil {
			c.logger.Debug("Failed to parse slash argument via string fallback",
				zap.String("name", name), zap.String("value", s), zap.Error(err))
			return zero, false
		}

		return v, true
	}

	return zero, false
}

// RemainderArg returns the rest of a text invocation verbatim and drains the
// cursor; it reports false when nothing is left. For slash commands it reads
// the string option called name.
func (c *Context) RemainderArg(name string) (string, bool) {
	if c.text == nil {
		return GetArg[string](c, name)
	}

	rest := c.text.Args.Remainder()
	c.text.Args.Rest()

	return rest, rest != ""
}

func findOption(data *discord.CommandInteraction, name string) (discord.CommandInteractionOption, bool) {
	if data == nil {
		return discord.CommandInteractionOption{}, false
	}

	for _, opt := range data.Options {
		if opt.Name == name {
			return opt, true
		}
	}

	return discord.CommandInteractionOption{}, false
}

func isSnowflakeOption(t discord.CommandOptionType) bool {
	switch t {
	case discord.UserOptionType, discord.ChannelOptionType, discord.RoleOptionType, discord.MentionableOptionType:
		return true
	}
	return false
}

// projectOption converts opt to T when the option kind maps onto T directly.
func projectOption[T Arg](opt discord.CommandInteractionOption) (T, bool) {
	var v T

	switch p := any(&v).(type) {
	case *string:
		if opt.Type != discord.StringOptionType {
			return v, false
		}
		var s string
		if err := json.Unmarshal(opt.Value, &s); err != nil {
			return v, false
		}
		*p = s

	case *int64:
		if opt.Type != discord.IntegerOptionType {
			return v, false
		}
		i, err := opt.IntValue()
		if err != nil {
			return v, false
		}
		*p = i

	case *int:
		if opt.Type != discord.IntegerOptionType {
			return v, false
		}
		i, err := opt.IntValue()
		if err != nil {
			return v, false
		}
		*p = int(i)

	case *uint64:
		switch {
		case opt.Type == discord.IntegerOptionType:
			i, err := opt.IntValue()
			if err != nil || i < 0 {
				return v, false
			}
			*p = uint64(i)
		case isSnowflakeOption(opt.Type):
			id, err := opt.SnowflakeValue()
			if err != nil {
				return v, false
			}
			*p = uint64(id)
		case opt.Type == discord.StringOptionType:
			var s string
			if err := json.Unmarshal(opt.Value, &s); err != nil {
				return v, false
			}
			u, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return v, false
			}
			*p = u
		default:
			return v, false
		}

	case *bool:
		if opt.Type != discord.BooleanOptionType {
			return v, false
		}
		b, err := opt.BoolValue()
		if err != nil {
			return v, false
		}
		*p = b

	case *float64:
		if opt.Type != discord.NumberOptionType {
			return v, false
		}
		f, err := opt.FloatValue()
		if err != nil {
			return v, false
		}
		*p = f

	default:
		return v, false
	}

	return v, true
}

// stringifyOption renders the option's underlying value as text.
func stringifyOption(opt discord.CommandInteractionOption) (string, bool) {
	switch {
	case opt.Type == discord.StringOptionType:
		var s string
		if err := json.Unmarshal(opt.Value, &s); err != nil {
			return "", false
		}
		return s, true

	case opt.Type == discord.IntegerOptionType:
		i, err := opt.IntValue()
		if err != nil {
			return "", false
		}
		return strconv.FormatInt(i, 10), true

	case opt.Type == discord.BooleanOptionType:
		b, err := opt.BoolValue()
		if err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true

	case opt.Type == discord.NumberOptionType:
		f, err := opt.FloatValue()
		if err != nil {
			return "", false
		}
		return strconv.FormatFloat(f, 'f', -1, 64), true

	case isSnowflakeOption(opt.Type):
		id, err := opt.SnowflakeValue()
		if err != nil {
			return "", false
		}
		return id.String(), true
	}

	return "", false
}

// parseArg parses a raw token as T.
func parseArg[T Arg](s string) (T, error) {
	var v T

	var err error
	switch p := any(&v).(type) {
	case *string:
		*p = s
	case *int64:
		*p, err = strconv.ParseInt(s, 10, 64)
	case *int:
		*p, err = strconv.Atoi(s)
	case *uint64:
		*p, err = strconv.ParseUint(s, 10, 64)
	case *bool:
		*p, err = parseBool(s)
	case *float64:
		*p, err = strconv.ParseFloat(s, 64)
	}

	return v, err
}

// parseBool accepts only the literals true and false.
func parseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	return false, fmt.Errorf("invalid bool %q", s)
}
