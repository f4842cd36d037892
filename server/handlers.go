package server

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/songla/songla/data"
)

// The frontend separates ids in query strings with this marker, which cannot
// show up inside a catalog id.
const idSeparator = "!@!"

func (s *Server) handleSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query"})
		return
	}

	candidates, err := s.fetcher.Search(c.Request.Context(), query)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}

func (s *Server) handleQueryTracks(c *gin.Context) {
	artistIDs := splitIDs(c.Query("artistIds"))
	tagIDs := splitTagIDs(c.Query("tagIds"))

	var (
		tracks []data.Track
		err    error
	)
	if len(artistIDs) > 0 || len(tagIDs) > 0 {
		tracks, err = s.db.QueryTracksByFilter(c.Request.Context(), artistIDs, tagIDs)
	} else {
		tracks, err = s.db.QueryTracks(c.Request.Context(), c.Query("q"))
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tracks)
}

func (s *Server) handleListTags(c *gin.Context) {
	tags, err := s.db.ListTags(c.Request.Context(), c.Query("q"))
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (s *Server) handleListArtists(c *gin.Context) {
	artists, err := s.db.ListArtists(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, artists)
}

func (s *Server) handleCreateTracks(c *gin.Context) {
	var candidates []data.Candidate
	if err := c.ShouldBindJSON(&candidates); err != nil {
		badRequest(c, err)
		return
	}
	if len(candidates) == 0 {
		badRequest(c, nil)
		return
	}

	tracks := make([]data.Track, len(candidates))
	for i := range candidates {
		tracks[i] = candidates[i].Track()
	}

	created, duplicates, err := s.db.CreateTracks(c.Request.Context(), tracks)
	if err != nil {
		internalError(c, err)
		return
	}
	if len(duplicates) > 0 {
		c.JSON(http.StatusOK, gin.H{
			"success":    false,
			"error":      "Duplicate tracks found",
			"duplicates": duplicates,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": created})
}

func (s *Server) handleReplaceTrackTags(c *gin.Context) {
	var updates []data.TagUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		badRequest(c, err)
		return
	}
	if len(updates) == 0 {
		badRequest(c, nil)
		return
	}

	tracks, err := s.db.ReplaceTrackTags(c.Request.Context(), updates)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tracks})
}

func (s *Server) handleDeleteTracks(c *gin.Context) {
	var videoIDs []string
	if err := c.ShouldBindJSON(&videoIDs); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.db.DeleteTracks(c.Request.Context(), videoIDs); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleCreateTag(c *gin.Context) {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		badRequest(c, err)
		return
	}

	tag, duplicate, err := s.db.CreateTag(c.Request.Context(), body.Name)
	if err != nil {
		internalError(c, err)
		return
	}
	if duplicate {
		c.JSON(http.StatusOK, gin.H{
			"success":    false,
			"error":      "Duplicate tag name",
			"duplicates": []string{body.Name},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tag})
}

func (s *Server) handleUpdateTag(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
		badRequest(c, err)
		return
	}

	tag, duplicate, err := s.db.UpdateTag(c.Request.Context(), id, body.Name)
	if err != nil {
		internalError(c, err)
		return
	}
	if duplicate {
		c.JSON(http.StatusOK, gin.H{
			"success":    false,
			"error":      "Duplicate tag name",
			"duplicates": []string{body.Name},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": tag})
}

func (s *Server) handleDeleteTags(c *gin.Context) {
	var ids []int64
	if err := c.ShouldBindJSON(&ids); err != nil {
		badRequest(c, err)
		return
	}

	if err := s.db.DeleteTags(c.Request.Context(), ids); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func splitIDs(param string) []string {
	if param == "" {
		return nil
	}
	return strings.Split(param, idSeparator)
}

func splitTagIDs(param string) []int64 {
	if param == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(param, idSeparator) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// Storage and upstream faults are logged with context here and reported to
// the caller without internal detail.
func internalError(c *gin.Context, err error) {
	log.Printf("%s %s: %s", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "Internal Server Error",
	})
}

func badRequest(c *gin.Context, err error) {
	if err != nil {
		log.Printf("%s %s: bad request: %s", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "Bad Request",
	})
}
