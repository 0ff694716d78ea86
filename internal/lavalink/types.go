// Package lavalink is a client for a Lavalink v4 playback node: REST for
// track loading and player control, a websocket for node events, and a
// client-side queue per guild.
package lavalink

import (
	"encoding/json"
	"fmt"
	"time"
)

// TrackInfo describes a loaded track.
type TrackInfo struct {
	Identifier string  `json:"identifier"`
	IsSeekable bool    `json:"isSeekable"`
	Author     string  `json:"author"`
	Length     int64   `json:"length"`
	IsStream   bool    `json:"isStream"`
	Position   int64   `json:"position"`
	Title      string  `json:"title"`
	URI        *string `json:"uri"`
	ArtworkURL *string `json:"artworkUrl"`
	ISRC       *string `json:"isrc"`
	SourceName string  `json:"sourceName"`
}

// Track is an encoded track plus its metadata.
type Track struct {
	Encoded  string         `json:"encoded"`
	Info     TrackInfo      `json:"info"`
	UserData map[string]any `json:"userData,omitempty"`
}

// Duration returns the track length.
func (t Track) Duration() time.Duration {
	return time.Duration(t.Info.Length) * time.Millisecond
}

// URL returns the track page, or "" if the source has none.
func (t Track) URL() string {
	if t.Info.URI == nil {
		return ""
	}
	return *t.Info.URI
}

// Artwork returns the artwork image url, or "".
func (t Track) Artwork() string {
	if t.Info.ArtworkURL == nil {
		return ""
	}
	return *t.Info.ArtworkURL
}

const requesterKey = "requesterId"

// WithRequester returns a copy of t tagged with the requesting user.
func (t Track) WithRequester(userID string) Track {
	data := make(map[string]any, len(t.UserData)+1)
	for k, v := range t.UserData {
		data[k] = v
	}
	data[requesterKey] = userID
	t.UserData = data

	return t
}

// Requester returns the user who queued t, if recorded.
func (t Track) Requester() (string, bool) {
	id, ok := t.UserData[requesterKey].(string)
	return id, ok
}

// LoadType is the kind of result returned by the loadtracks endpoint.
type LoadType string

const (
	LoadTrack    LoadType = "track"
	LoadPlaylist LoadType = "playlist"
	LoadSearch   LoadType = "search"
	LoadEmpty    LoadType = "empty"
	LoadError    LoadType = "error"
)

// PlaylistInfo names a loaded playlist.
type PlaylistInfo struct {
	Name          string `json:"name"`
	SelectedTrack int    `json:"selectedTrack"`
}

// Exception is a load or playback failure reported by the node.
type Exception struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Cause    string `json:"cause"`
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Severity)
}

// LoadResult is a decoded loadtracks response. Which fields are set depends on Type.
type LoadResult struct {
	Type      LoadType
	Tracks    []Track
	Playlist  *PlaylistInfo
	Exception *Exception
}

// UnmarshalJSON decodes the data payload according to loadType.
func (r *LoadResult) UnmarshalJSON(b []byte) error {
	var raw struct {
		LoadType LoadType        `json:"loadType"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*r = LoadResult{Type: raw.LoadType}

	switch raw.LoadType {
	case LoadTrack:
		var t Track
		if err := json.Unmarshal(raw.Data, &t); err != nil {
			return fmt.Errorf("failed to decode track: %w", err)
		}
		r.Tracks = []Track{t}

	case LoadSearch:
		if err := json.Unmarshal(raw.Data, &r.Tracks); err != nil {
			return fmt.Errorf("failed to decode search results: %w", err)
		}

	case LoadPlaylist:
		var pl struct {
			Info   PlaylistInfo `json:"info"`
			Tracks []Track      `json:"tracks"`
		}
		if err := json.Unmarshal(raw.Data, &pl); err != nil {
			return fmt.Errorf("failed to decode playlist: %w", err)
		}
		r.Playlist = &pl.Info
		r.Tracks = pl.Tracks

	case LoadError:
		var ex Exception
		if err := json.Unmarshal(raw.Data, &ex); err != nil {
			return fmt.Errorf("failed to decode load exception: %w", err)
		}
		r.Exception = &ex

	case LoadEmpty:
	default:
		return fmt.Errorf("unknown load type %q", raw.LoadType)
	}

	return nil
}

// VoiceState is the Discord voice connection handed to the node.
type VoiceState struct {
	Token     string `json:"token"`
	Endpoint  string `json:"endpoint"`
	SessionID string `json:"sessionId"`
}

// PlayerState is the playback position reported by the node.
type PlayerState struct {
	Time      int64 `json:"time"`
	Position  int64 `json:"position"`
	Connected bool  `json:"connected"`
	Ping      int64 `json:"ping"`
}

// PlayerInfo is the node's view of a guild player.
type PlayerInfo struct {
	GuildID string      `json:"guildId"`
	Track   *Track      `json:"track"`
	Volume  int         `json:"volume"`
	Paused  bool        `json:"paused"`
	State   PlayerState `json:"state"`
	Voice   VoiceState  `json:"voice"`
}

// UpdateTrack selects the track to play. A nil Encoded stops playback.
type UpdateTrack struct {
	Encoded *string `json:"encoded"`
}

// PlayerUpdate is a partial player update; nil fields are left unchanged.
type PlayerUpdate struct {
	Track    *UpdateTrack `json:"track,omitempty"`
	Position *int64       `json:"position,omitempty"`
	Volume   *int         `json:"volume,omitempty"`
	Paused   *bool        `json:"paused,omitempty"`
	Voice    *VoiceState  `json:"voice,omitempty"`
}

// lyricsResponse is the LavaLyrics payload.
type lyricsResponse struct {
	SourceName string `json:"sourceName"`
	Provider   string `json:"provider"`
	Text       string `json:"text"`
	Lines      []struct {
		Timestamp int64  `json:"timestamp"`
		Line      string `json:"line"`
	} `json:"lines"`
}

// apiError is the error body returned by the REST API.
type apiError struct {
	Timestamp int64  `json:"timestamp"`
	Status    int    `json:"status"`
	Reason    string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// Error is a failed REST call.
type Error struct {
	Status  int
	Message string
	Path    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("lavalink %s: status %d: %s", e.Path, e.Status, e.Message)
}
