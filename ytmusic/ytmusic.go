// Package ytmusic wraps the music catalog gateway, a youtubei.js-shaped JSON
// API exposing search, lyrics, album, and artist lookups.
package ytmusic

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/songla/songla/data"
	"github.com/songla/songla/limiter"
	"github.com/songla/songla/request"
)

const nextReqFilename = ".catalog-next-req"

// New creates a new catalog client for the gateway at baseURL.
func New(baseURL string) *Client {
	lim := limiter.New(nextReqFilename, time.Second/10)
	if err := lim.Load(); err != nil {
		log.Printf("ignoring persisted request clock: %s", err)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		lim:        lim,
		cache:      gocache.New(time.Hour, 10*time.Minute),
	}
}

// Client issues paced requests to the catalog gateway. The mutex guards the
// limiter clock, not the round trip, so a slow response holds up no other
// caller; a 429 backoff still stalls every later request until the window
// passes.
type Client struct {
	mu sync.Mutex

	baseURL    string
	httpClient *http.Client
	lim        *limiter.Limiter

	// Album and artist detail are hot during enrichment (the same album
	// shows up on several candidates) and safe to serve slightly stale.
	cache *gocache.Cache
}

// Search returns the song-category hits for a free-text query. A response
// with no result shelf is an empty list, not an error.
func (yt *Client) Search(ctx context.Context, q string) ([]data.Candidate, error) {
	query := url.Values{}
	query.Add("q", q)
	query.Add("type", "song")

	var results struct {
		Contents []struct {
			Contents []struct {
				ID      string `json:"id"`
				Title   string `json:"title"`
				Artists []struct {
					ChannelID string `json:"channel_id"`
					Name      string `json:"name"`
				} `json:"artists"`
				Album *struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"album"`
				Duration struct {
					Seconds int64 `json:"seconds"`
				} `json:"duration"`
				Thumbnail struct {
					Contents []struct {
						URL string `json:"url"`
					} `json:"contents"`
				} `json:"thumbnail"`
			} `json:"contents"`
		} `json:"contents"`
	}
	if err := yt.get(ctx, "/search", query, &results); err != nil {
		return nil, fmt.Errorf("search error for '%s': %w", q, err)
	}

	if len(results.Contents) == 0 {
		return []data.Candidate{}, nil
	}
	shelf := results.Contents[0]

	candidates := make([]data.Candidate, 0, len(shelf.Contents))
	for _, song := range shelf.Contents {
		candidate := data.Candidate{
			VideoID:         song.ID,
			Name:            song.Title,
			Artists:         make([]data.Artist, len(song.Artists)),
			DurationSeconds: song.Duration.Seconds,
		}
		for i, artist := range song.Artists {
			candidate.Artists[i] = data.Artist{
				ArtistID: artist.ChannelID,
				Name:     artist.Name,
			}
		}
		if song.Album != nil {
			candidate.AlbumID = song.Album.ID
			candidate.AlbumName = song.Album.Name
		}
		if len(song.Thumbnail.Contents) > 0 {
			candidate.ThumbnailURL = song.Thumbnail.Contents[0].URL
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

// Lyrics returns the lyrics text for a video id, which may be empty when the
// catalog has none.
func (yt *Client) Lyrics(ctx context.Context, videoID string) (string, error) {
	query := url.Values{}
	query.Add("video_id", videoID)

	var result struct {
		Description struct {
			Text string `json:"text"`
		} `json:"description"`
	}
	if err := yt.get(ctx, "/lyrics", query, &result); err != nil {
		return "", fmt.Errorf("lyrics error for '%s': %w", videoID, err)
	}
	return result.Description.Text, nil
}

// Album returns the canonical album name and, when the subtitle carries one,
// the release year.
func (yt *Client) Album(ctx context.Context, albumID string) (*data.AlbumDetail, error) {
	if cached, ok := yt.cache.Get("album:" + albumID); ok {
		album := cached.(data.AlbumDetail)
		return &album, nil
	}

	query := url.Values{}
	query.Add("id", albumID)

	var result struct {
		Header struct {
			Title struct {
				Text string `json:"text"`
			} `json:"title"`
			Subtitle struct {
				Runs []struct {
					Text string `json:"text"`
				} `json:"runs"`
			} `json:"subtitle"`
		} `json:"header"`
	}
	if err := yt.get(ctx, "/album", query, &result); err != nil {
		return nil, fmt.Errorf("album error for '%s': %w", albumID, err)
	}

	runs := make([]string, len(result.Header.Subtitle.Runs))
	for i, run := range result.Header.Subtitle.Runs {
		runs[i] = run.Text
	}

	album := data.AlbumDetail{
		AlbumID:     albumID,
		Name:        result.Header.Title.Text,
		ReleaseYear: parseReleaseYear(runs),
	}
	yt.cache.SetDefault("album:"+albumID, album)
	return &album, nil
}

// Artist returns the canonical display name for an artist id.
func (yt *Client) Artist(ctx context.Context, artistID string) (*data.ArtistDetail, error) {
	if cached, ok := yt.cache.Get("artist:" + artistID); ok {
		artist := cached.(data.ArtistDetail)
		return &artist, nil
	}

	query := url.Values{}
	query.Add("id", artistID)

	var result struct {
		Header struct {
			Title struct {
				Text string `json:"text"`
			} `json:"title"`
		} `json:"header"`
	}
	if err := yt.get(ctx, "/artist", query, &result); err != nil {
		return nil, fmt.Errorf("artist error for '%s': %w", artistID, err)
	}

	artist := data.ArtistDetail{
		ArtistID: artistID,
		Name:     result.Header.Title.Text,
	}
	yt.cache.SetDefault("artist:"+artistID, artist)
	return &artist, nil
}

func (yt *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
retry:
	// Claim the next request slot before releasing the clock, so concurrent
	// callers stay paced even while earlier responses are still in flight.
	yt.mu.Lock()
	if err := yt.lim.Wait(ctx); err != nil {
		yt.mu.Unlock()
		return err
	}
	yt.lim.Delay()
	yt.mu.Unlock()

	u, err := url.Parse(yt.baseURL + path)
	if err != nil {
		return fmt.Errorf("bad url '%s%s': %w", yt.baseURL, path, err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}

	resp, err := yt.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		retryAfter := resp.Header.Get("Retry-After")
		resp.Body.Close()
		yt.mu.Lock()
		err := yt.lim.Backoff(retryAfter)
		yt.mu.Unlock()
		if err != nil {
			return fmt.Errorf("bad retry-after '%s': %w", retryAfter, err)
		}
		goto retry
	}

	defer resp.Body.Close()
	if err := request.Error(resp); err != nil {
		return fmt.Errorf("fetch error: %w", err)
	}

	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode error: %w", err)
	}

	return nil
}
