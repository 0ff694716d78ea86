package dispatch

import (
	"fmt"
	"time"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
)

// ErrorColor is the embed colour of error replies.
const ErrorColor discord.Color = 0xdd7878

// Response is a composite reply. Empty fields are omitted on delivery.
type Response struct {
	Content    string
	Embeds     []discord.Embed
	Components discord.ContainerComponents
}

// IsEmpty reports whether the response carries nothing to send.
func (r Response) IsEmpty() bool {
	return r.Content == "" && len(r.Embeds) == 0 && len(r.Components) == 0
}

// messageData renders r as a channel message.
func (r Response) messageData() api.SendMessageData {
	// SendMessageData tags every field omitempty, so empty values are not sent.
	return api.SendMessageData{
		Content:    r.Content,
		Embeds:     r.Embeds,
		Components: r.Components,
	}
}

// InteractionData renders r as interaction response data, leaving empty fields unset.
func (r Response) InteractionData() *api.InteractionResponseData {
	data := &api.InteractionResponseData{}
	if r.Content != "" {
		data.Content = option.NewNullableString(r.Content)
	}
	if len(r.Embeds) > 0 {
		embeds := r.Embeds
		data.Embeds = &embeds
	}
	if len(r.Components) > 0 {
		components := r.Components
		data.Components = &components
	}

	return data
}

// ResponseBuilder accumulates a Response.
type ResponseBuilder struct {
	resp Response
}

// NewResponse starts an empty response.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{}
}

// Content sets the text content, replacing any earlier value.
func (b *ResponseBuilder) Content(content string) *ResponseBuilder {
	b.resp.Content = content
	return b
}

// Contentf sets formatted text content.
func (b *ResponseBuilder) Contentf(format string, args ...any) *ResponseBuilder {
	return b.Content(fmt.Sprintf(format, args...))
}

// Embed appends a rich embed.
func (b *ResponseBuilder) Embed(embed discord.Embed) *ResponseBuilder {
	b.resp.Embeds = append(b.resp.Embeds, embed)
	return b
}

// Component appends a top-level component, usually an action row.
func (b *ResponseBuilder) Component(component discord.ContainerComponent) *ResponseBuilder {
	b.resp.Components = append(b.resp.Components, component)
	return b
}

// Build returns the accumulated response. The builder should not be reused.
func (b *ResponseBuilder) Build() Response {
	resp := b.resp
	b.resp = Response{}

	return resp
}

// Text is shorthand for a content-only response.
func Text(format string, args ...any) Response {
	return NewResponse().Contentf(format, args...).Build()
}

// EmbedBuilder assembles a discord.Embed.
type EmbedBuilder struct {
	embed discord.Embed
}

// NewEmbed starts a rich embed.
func NewEmbed() *EmbedBuilder {
	return &EmbedBuilder{embed: discord.Embed{Type: discord.NormalEmbed}}
}

// Title sets the embed title.
func (b *EmbedBuilder) Title(title string) *EmbedBuilder {
	b.embed.Title = title
	return b
}

// Description sets the embed body text.
func (b *EmbedBuilder) Description(description string) *EmbedBuilder {
	b.embed.Description = description
	return b
}

// Color sets the accent colour on the left edge.
func (b *EmbedBuilder) Color(color discord.Color) *EmbedBuilder {
	b.embed.Color = color
	return b
}

// URL makes the title a link.
func (b *EmbedBuilder) URL(url string) *EmbedBuilder {
	b.embed.URL = url
	return b
}

// Thumbnail sets the thumbnail image; an empty url is ignored.
func (b *EmbedBuilder) Thumbnail(url string) *EmbedBuilder {
	if url != "" {
		b.embed.Thumbnail = &discord.EmbedThumbnail{URL: url}
	}
	return b
}

// Timestamp sets the time shown in the footer.
func (b *EmbedBuilder) Timestamp(t time.Time) *EmbedBuilder {
	b.embed.Timestamp = discord.NewTimestamp(t)
	return b
}

// Footer sets the footer text.
func (b *EmbedBuilder) Footer(text string) *EmbedBuilder {
	b.embed.Footer = &discord.EmbedFooter{Text: text}
	return b
}

// Field appends a full-width field.
func (b *EmbedBuilder) Field(name, value string) *EmbedBuilder {
	b.embed.Fields = append(b.embed.Fields, discord.EmbedField{Name: name, Value: value})
	return b
}

// InlineField appends a field that shares its row with neighbouring inline fields.
func (b *EmbedBuilder) InlineField(name, value string) *EmbedBuilder {
	b.embed.Fields = append(b.embed.Fields, discord.EmbedField{Name: name, Value: value, Inline: true})
	return b
}

// Build returns the assembled embed.
func (b *EmbedBuilder) Build() discord.Embed {
	return b.embed
}

// Button creates an interactive button whose clicks are routed by id.
func Button(id discord.ComponentID, label string, style discord.ButtonComponentStyle) *discord.ButtonComponent {
	return &discord.ButtonComponent{
		CustomID: id,
		Label:    label,
		Style:    style,
	}
}

// ActionRow groups buttons into one row.
func ActionRow(buttons ...*discord.ButtonComponent) *discord.ActionRowComponent {
	row := make(discord.ActionRowComponent, 0, len(buttons))
	for _, b := range buttons {
		row = append(row, b)
	}

	return &row
}

// ErrorFormatter turns a failed invocation into a reply.
type ErrorFormatter func(err error) Response

// ErrorResponse is the default ErrorFormatter.
func ErrorResponse(err error) Response {
	embed := NewEmbed().
		Title("Command Error").
		Description(fmt.Sprintf("I ran into a problem trying to do that:\n```\n%s```", err)).
		Color(ErrorColor).
		Timestamp(time.Now().UTC()).
		Build()

	return NewResponse().Embed(embed).Build()
}
