package lavalink

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL+"/", "youshallnotpass", srv.Client())
	c.SetSessionID("abc")

	return c
}

func TestLoadTracksSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/loadtracks", r.URL.Path)
		assert.Equal(t, "spsearch:daft punk", r.URL.Query().Get("identifier"))
		assert.Equal(t, "youshallnotpass", r.Header.Get("Authorization"))

		_, _ = io.WriteString(w, `{"loadType":"search","data":[
			{"encoded":"QAAA1","info":{"title":"One More Time","author":"Daft Punk","length":320000,"uri":"https://example.com/1"}},
			{"encoded":"QAAA2","info":{"title":"Aerodynamic","author":"Daft Punk","length":212000}}
		]}`)
	})

	res, err := c.LoadTracks(context.Background(), "spsearch:daft punk")
	require.NoError(t, err)
	assert.Equal(t, LoadSearch, res.Type)
	require.Len(t, res.Tracks, 2)
	assert.Equal(t, "One More Time", res.Tracks[0].Info.Title)
	assert.Equal(t, "https://example.com/1", res.Tracks[0].URL())
	assert.Equal(t, "", res.Tracks[1].URL())
}

func TestLoadResultVariants(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    LoadType
		tracks  int
		wantErr bool
	}{
		{name: "track", body: `{"loadType":"track","data":{"encoded":"x","info":{"title":"a"}}}`, want: LoadTrack, tracks: 1},
		{name: "playlist", body: `{"loadType":"playlist","data":{"info":{"name":"mix","selectedTrack":-1},"tracks":[{"encoded":"x"},{"encoded":"y"}]}}`, want: LoadPlaylist, tracks: 2},
		{name: "empty", body: `{"loadType":"empty","data":{}}`, want: LoadEmpty},
		{name: "error", body: `{"loadType":"error","data":{"message":"blocked","severity":"common","cause":"x"}}`, want: LoadError},
		{name: "unknown", body: `{"loadType":"nope","data":{}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var res LoadResult
			err := json.Unmarshal([]byte(tt.body), &res)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Type)
			assert.Len(t, res.Tracks, tt.tracks)
		})
	}
}

func TestUpdatePlayer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/v4/sessions/abc/players/42", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("noReplace"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"encoded": nil}, body["track"])
		assert.NotContains(t, body, "volume")

		_, _ = io.WriteString(w, `{"guildId":"42","volume":100,"paused":false}`)
	})

	info, err := c.UpdatePlayer(context.Background(), discord.GuildID(42), PlayerUpdate{Track: &UpdateTrack{}}, false)
	require.NoError(t, err)
	assert.Equal(t, "42", info.GuildID)
}

func TestPlayerCallsNeedSession(t *testing.T) {
	c := NewClient("http://localhost:1", "pw", nil)

	_, err := c.GetPlayer(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"timestamp":1,"status":404,"error":"Not Found","message":"Player not found","path":"/v4/sessions/abc/players/1"}`)
	})

	err := c.DestroyPlayer(context.Background(), 1)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Player not found", apiErr.Message)
}

func TestLyrics(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v4/sessions/abc/players/7/track/lyrics", r.URL.Path)
		assert.Equal(t, "false", r.URL.Query().Get("skipTrackSource"))

		_, _ = io.WriteString(w, `{"sourceName":"spotify","provider":"x","text":null,"lines":[{"timestamp":0,"line":"first"},{"timestamp":1000,"line":"second"}]}`)
	})

	lyrics, err := c.Lyrics(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", lyrics)
}

func TestLyricsNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "NoContent",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNoContent)
			},
		},
		{
			name: "NotFound",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				_, _ = io.WriteString(w, `{"timestamp":1,"status":404,"error":"Not Found","message":"Lyrics not found","path":"/v4/sessions/abc/players/7/track/lyrics"}`)
			},
		},
		{
			name: "EmptyBody",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"sourceName":"spotify","provider":"x","text":null,"lines":[]}`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			_, err := c.Lyrics(context.Background(), 7)
			assert.ErrorIs(t, err, ErrNoLyrics)
		})
	}
}

func TestLyricsServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"status":500,"message":"boom"}`)
	})

	_, err := c.Lyrics(context.Background(), 7)
	assert.NotErrorIs(t, err, ErrNoLyrics)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestNoContentOutsideLyricsIsSuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.DestroyPlayer(context.Background(), 1))
}

func TestVersion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "4.0.8\n")
	})

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.0.8", v)
}
