package music

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// LyricsCache holds fetched lyrics keyed by track.
type LyricsCache struct {
	*lru.Cache[string, string]
}

// NewLyricsCache creates a LyricsCache holding up to size entries.
func NewLyricsCache(size int) (*LyricsCache, error) {
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}

	return &LyricsCache{Cache: c}, nil
}

// NegativeLyricsCache remembers tracks the node has no lyrics for.
type NegativeLyricsCache struct {
	*lru.Cache[string, bool]
}

// NewNegativeLyricsCache creates a NegativeLyricsCache holding up to size entries.
func NewNegativeLyricsCache(size int) (*NegativeLyricsCache, error) {
	c, err := lru.New[string, bool](size)
	if err != nil {
		return nil, err
	}

	return &NegativeLyricsCache{Cache: c}, nil
}

// Mark records that key has no lyrics.
func (n *NegativeLyricsCache) Mark(key string) {
	n.Cache.Add(key, true)
}

