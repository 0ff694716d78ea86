package lavalink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
)

var (
	// ErrNoSession is returned by player calls before the websocket reports ready.
	ErrNoSession = errors.New("lavalink session is not established")
	// ErrNoLyrics is returned when the node finds no lyrics for the current track.
	ErrNoLyrics = errors.New("no lyrics found for the current track")
)

// Client talks to the node's REST API.
type Client struct {
	baseURL  string
	password string
	http     *http.Client

	mu        sync.RWMutex
	sessionID string
}

// NewClient creates a REST client for baseURL, e.g. "http://localhost:2333".
func NewClient(baseURL, password string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		password: password,
		http:     httpClient,
	}
}

// SessionID returns the websocket session the player endpoints are scoped to.
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// SetSessionID records the session announced by the ready op.
func (c *Client) SetSessionID(id string) {
	c.mu.Lock()
	c.sessionID = id
	c.mu.Unlock()
}

func (c *Client) playerPath(guildID discord.GuildID) (string, error) {
	sid := c.SessionID()
	if sid == "" {
		return "", ErrNoSession
	}

	return fmt.Sprintf("/v4/sessions/%s/players/%s", url.PathEscape(sid), guildID), nil
}

// LoadTracks resolves an identifier or search query into tracks.
func (c *Client) LoadTracks(ctx context.Context, identifier string) (*LoadResult, error) {
	var res LoadResult
	path := "/v4/loadtracks?identifier=" + url.QueryEscape(identifier)
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// GetPlayer returns the node's view of the guild player.
func (c *Client) GetPlayer(ctx context.Context, guildID discord.GuildID) (*PlayerInfo, error) {
	path, err := c.playerPath(guildID)
	if err != nil {
		return nil, err
	}

	var info PlayerInfo
	if err := c.do(ctx, http.MethodGet, path, nil, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// UpdatePlayer applies a partial update, creating the player if needed.
// With noReplace set, a playing track is not replaced.
func (c *Client) UpdatePlayer(ctx context.Context, guildID discord.GuildID, update PlayerUpdate, noReplace bool) (*PlayerInfo, error) {
	path, err := c.playerPath(guildID)
	if err != nil {
		return nil, err
	}
	path += "?noReplace=" + strconv.FormatBool(noReplace)

	var info PlayerInfo
	if err := c.do(ctx, http.MethodPatch, path, update, &info); err != nil {
		return nil, err
	}

	return &info, nil
}

// DestroyPlayer removes the guild player from the node.
func (c *Client) DestroyPlayer(ctx context.Context, guildID discord.GuildID) error {
	path, err := c.playerPath(guildID)
	if err != nil {
		return err
	}

	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Lyrics fetches the lyrics of the guild's current track, one line per row.
func (c *Client) Lyrics(ctx context.Context, guildID discord.GuildID) (string, error) {
	path, err := c.playerPath(guildID)
	if err != nil {
		return "", err
	}

	var res lyricsResponse
	err = c.do(ctx, http.MethodGet, path+"/track/lyrics?skipTrackSource=false", nil, &res)

	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return "", ErrNoLyrics
	}
	if err != nil {
		return "", err
	}

	if len(res.Lines) == 0 {
		if res.Text == "" {
			return "", ErrNoLyrics
		}
		return res.Text, nil
	}

	lines := make([]string, 0, len(res.Lines))
	for _, l := range res.Lines {
		lines = append(lines, l.Line)
	}

	return strings.Join(lines, "\n"), nil
}

// Version returns the node version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/version", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach lavalink: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read version: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &Error{Status: resp.StatusCode, Message: string(body), Path: "/version"}
	}

	return strings.TrimSpace(string(body)), nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach lavalink: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode, Path: req.URL.Path, Message: strings.TrimSpace(string(data))}

		var body apiError
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			apiErr.Message = body.Message
		}

		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
