package api

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/safar/goldstock/internal/images"
)

func (s *Server) uploadImage(c *gin.Context) {
	if s.images == nil {
		respondError(c, http.StatusServiceUnavailable, "image storage is not configured")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, http.StatusBadRequest, "unreadable file")
		return
	}
	defer f.Close()

	path, err := s.images.Save(fh.Filename, f)
	if err != nil {
		if errors.Is(err, images.ErrInvalidName) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": path,
		"url":  "/images/" + filepath.Base(path),
	})
}

func (s *Server) serveImage(c *gin.Context) {
	if s.images == nil {
		respondError(c, http.StatusNotFound, "image not found")
		return
	}

	path, err := s.images.Path(c.Param("name"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		respondError(c, http.StatusNotFound, "image not found")
		return
	}

	c.File(path)
}
