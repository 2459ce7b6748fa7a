package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// listBookmarks: GET /v1/bookmarks
func (s *Server) listBookmarks(c *gin.Context) {
	ids, err := s.library.Bookmarks(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ids, "articles": s.catalog.Lookup(ids)})
}

// addBookmark: PUT /v1/bookmarks/:id
func (s *Server) addBookmark(c *gin.Context) {
	a, found := s.article(c)
	if !found {
		return
	}
	ids, err := s.library.AddBookmark(c.Request.Context(), a.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, ids)
}

// removeBookmark: DELETE /v1/bookmarks/:id
func (s *Server) removeBookmark(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	ids, err := s.library.RemoveBookmark(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, ids)
}

// getOffline: GET /v1/offline/:id
func (s *Server) getOffline(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	a, err := s.library.Offline(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond(c, a)
}

// saveOffline: PUT /v1/offline/:id stores the catalog copy of the article.
func (s *Server) saveOffline(c *gin.Context) {
	a, found := s.article(c)
	if !found {
		return
	}
	if err := s.library.SaveOffline(c.Request.Context(), a); err != nil {
		writeError(c, err)
		return
	}
	respond(c, a)
}

// removeOffline: DELETE /v1/offline/:id
func (s *Server) removeOffline(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := s.library.RemoveOffline(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
