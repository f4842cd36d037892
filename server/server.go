package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/songla/songla/auth"
	"github.com/songla/songla/db"
	"github.com/songla/songla/fetcher"
)

type Server struct {
	db      *db.DB
	fetcher *fetcher.Fetcher
	auth    *auth.Authorizer
	engine  *gin.Engine
}

func New(db *db.DB, f *fetcher.Fetcher, authorizer *auth.Authorizer) *Server {
	s := &Server{
		db:      db,
		fetcher: f,
		auth:    authorizer,
		engine:  gin.New(),
	}
	s.engine.Use(gin.Logger(), gin.Recovery())

	api := s.engine.Group("/api")
	api.GET("/search", s.handleSearch)
	api.GET("/tracks", s.handleQueryTracks)
	api.GET("/tags", s.handleListTags)
	api.GET("/artists", s.handleListArtists)

	admin := api.Group("", s.requireAdmin)
	admin.POST("/tracks", s.handleCreateTracks)
	admin.PUT("/tracks/tags", s.handleReplaceTrackTags)
	admin.DELETE("/tracks", s.handleDeleteTracks)
	admin.POST("/tags", s.handleCreateTag)
	admin.PUT("/tags/:id", s.handleUpdateTag)
	admin.DELETE("/tags", s.handleDeleteTags)

	return s
}

// Handler exposes the router, mainly to tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := http.Server{Addr: addr, Handler: s.engine}

	errs := make(chan error)
	go func() { errs <- srv.ListenAndServe() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		if err := srv.Shutdown(context.Background()); err != nil {
			return err
		}
		if err := <-errs; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
