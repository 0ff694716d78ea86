package lavalink

import "strings"

// SpotifySearch is the search prefix served by the LavaSrc plugin.
const SpotifySearch = "spsearch:"

// ResolveQuery turns user input into a loadtracks identifier. Links, explicit
// "source:query" identifiers and "artist - title" queries pass through;
// anything else becomes a Spotify search.
func ResolveQuery(query string) string {
	query = strings.TrimSpace(query)

	switch {
	case strings.HasPrefix(query, "http"):
		return query
	case strings.Count(query, ":") == 1, strings.Contains(query, " - "):
		return query
	default:
		return SpotifySearch + query
	}
}
