// Package components handles clicks on the buttons attached to player messages.
package components

import (
	"github.com/diamondburned/arikawa/v3/discord"

	"github.com/Raikerian/chimera/internal/dispatch"
)

// Button ids.
const (
	PauseID  discord.ComponentID = "pause"
	LyricsID discord.ComponentID = "lyrics"
	SkipID   discord.ComponentID = "skip"
)

// LyricsColor matches the other informational embeds.
const LyricsColor discord.Color = 0x1DB954

// Controls is the button row under a now-playing card. The first button
// resumes when playback is paused and pauses otherwise.
func Controls(paused bool) *discord.ActionRowComponent {
	toggle := dispatch.Button(PauseID, "⏸️ Pause", discord.SecondaryButtonStyle())
	if paused {
		toggle = dispatch.Button(PauseID, "▶️ Resume", discord.SecondaryButtonStyle())
	}

	return dispatch.ActionRow(
		toggle,
		dispatch.Button(LyricsID, "🎤 Lyrics", discord.SecondaryButtonStyle()),
		dispatch.Button(SkipID, "⏩ Skip", discord.DangerButtonStyle()),
	)
}

// SkippedMessage announces a skipped track.
func SkippedMessage(title string) string {
	return "⏩ Skipped " + title + " to the next track."
}

// LyricsEmbed renders lyrics, cut to fit an embed description.
func LyricsEmbed(text string) discord.Embed {
	const maxLen = 4096

	if r := []rune(text); len(r) > maxLen {
		text = string(r[:maxLen-1]) + "…"
	}

	return dispatch.NewEmbed().
		Title("🎶 Lyrics").
		Description(text).
		Color(LyricsColor).
		Build()
}
