package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songla/songla/auth"
	"github.com/songla/songla/data"
	"github.com/songla/songla/db"
	"github.com/songla/songla/fetcher"
)

const (
	testSecret = "test-secret"
	adminEmail = "admin@example.com"
)

type stubCatalog struct {
	results []data.Candidate
}

func (s *stubCatalog) Search(ctx context.Context, query string) ([]data.Candidate, error) {
	return s.results, nil
}

func (s *stubCatalog) Lyrics(ctx context.Context, videoID string) (string, error) {
	return "", nil
}

func (s *stubCatalog) Album(ctx context.Context, albumID string) (*data.AlbumDetail, error) {
	return &data.AlbumDetail{AlbumID: albumID}, nil
}

func (s *stubCatalog) Artist(ctx context.Context, artistID string) (*data.ArtistDetail, error) {
	return &data.ArtistDetail{ArtistID: artistID}, nil
}

func newTestServer(t *testing.T) (*Server, *db.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	f := fetcher.New(&stubCatalog{}, 10)
	authorizer := auth.New(testSecret, adminEmail)
	return New(database, f, authorizer), database
}

func adminToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": adminEmail,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestMutationsRequireAdmin(t *testing.T) {
	s, _ := newTestServer(t)

	// No token at all.
	w := doJSON(t, s, http.MethodPost, "/api/tags", "", gin.H{"name": "pop"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["error"])

	// A valid session for the wrong user.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "visitor@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	w = doJSON(t, s, http.MethodDelete, "/api/tracks", signed, []string{"vid-1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTagLifecycleOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)
	token := adminToken(t)

	w := doJSON(t, s, http.MethodPost, "/api/tags", token, gin.H{"name": "pop"})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool     `json:"success"`
		Data    data.Tag `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "pop", created.Data.Name)

	// Duplicate names come back as a business rejection, not a 500.
	w = doJSON(t, s, http.MethodPost, "/api/tags", token, gin.H{"name": "pop"})
	require.Equal(t, http.StatusOK, w.Code)

	var dup struct {
		Success    bool     `json:"success"`
		Error      string   `json:"error"`
		Duplicates []string `json:"duplicates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dup))
	assert.False(t, dup.Success)
	assert.Equal(t, []string{"pop"}, dup.Duplicates)

	// The tag shows up in the public listing.
	w = doJSON(t, s, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []data.Tag
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	require.Len(t, tags, 1)
	assert.Equal(t, "pop", tags[0].Name)
}

func TestTrackLifecycleOverHTTP(t *testing.T) {
	s, _ := newTestServer(t)
	token := adminToken(t)

	candidate := data.Candidate{
		VideoID: "vid-1",
		Name:    "Song One",
		Artists: []data.Artist{{ArtistID: "ch-1", Name: "Artist One"}},
	}

	w := doJSON(t, s, http.MethodPost, "/api/tracks", token, []data.Candidate{candidate})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Success bool         `json:"success"`
		Data    []data.Track `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.True(t, created.Success)
	require.Len(t, created.Data, 1)
	assert.Equal(t, "vid-1", created.Data[0].VideoID)

	// Re-adding reports the conflicting display name.
	w = doJSON(t, s, http.MethodPost, "/api/tracks", token, []data.Candidate{candidate})
	require.Equal(t, http.StatusOK, w.Code)

	var dup struct {
		Success    bool     `json:"success"`
		Duplicates []string `json:"duplicates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dup))
	assert.False(t, dup.Success)
	assert.Equal(t, []string{"Song One"}, dup.Duplicates)

	// Queryable without auth.
	w = doJSON(t, s, http.MethodGet, "/api/tracks?q=song", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tracks []data.Track
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)

	// And by artist filter.
	w = doJSON(t, s, http.MethodGet, "/api/tracks?artistIds=ch-1", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracks))
	require.Len(t, tracks, 1)

	// Delete, then it's gone.
	w = doJSON(t, s, http.MethodDelete, "/api/tracks", token, []string{"vid-1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/tracks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tracks))
	assert.Empty(t, tracks)
}

func TestSearchRequiresQuery(t *testing.T) {
	s, _ := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchReturnsCandidates(t *testing.T) {
	gin.SetMode(gin.TestMode)

	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	catalog := &stubCatalog{results: []data.Candidate{
		{VideoID: "vid-1", Name: "Song One"},
	}}
	s := New(database, fetcher.New(catalog, 10), auth.New(testSecret, adminEmail))

	w := doJSON(t, s, http.MethodGet, "/api/search?q=song", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var candidates []data.Candidate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &candidates))
	require.Len(t, candidates, 1)
	assert.Equal(t, "vid-1", candidates[0].VideoID)
}
