package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/goldstock/internal/images"
	"github.com/safar/goldstock/internal/models"
	"github.com/safar/goldstock/internal/store"
	"go.uber.org/zap"
)

// freeTextParam carries the OR search across the major product columns;
// every other query parameter is a per-field filter.
const freeTextParam = "q"

func (s *Server) listProducts(c *gin.Context) {
	filters := map[string]string{}
	for key, values := range c.Request.URL.Query() {
		if key == freeTextParam || len(values) == 0 {
			continue
		}
		filters[key] = values[0]
	}

	products, err := store.SearchProducts(c.Request.Context(), s.db, filters, c.Query(freeTextParam))
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, products)
}

func (s *Server) createProduct(c *gin.Context) {
	var req models.Product
	if !bindJSON(c, &req) {
		return
	}
	if !s.importImages(c, &req.ImagePath, &req.ExtraImages) {
		return
	}

	product, err := store.CreateProduct(c.Request.Context(), s.db, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (s *Server) getProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	product, err := store.GetProduct(c.Request.Context(), s.db, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) replaceProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.Product
	if !bindJSON(c, &req) {
		return
	}
	if !s.importImages(c, &req.ImagePath, &req.ExtraImages) {
		return
	}

	product, err := store.ReplaceProduct(c.Request.Context(), s.db, id, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) patchProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch models.ProductPatch
	if !bindJSON(c, &patch) {
		return
	}
	if !s.importImages(c, patch.ImagePath, patch.ExtraImages) {
		return
	}

	product, err := store.UpdateProduct(c.Request.Context(), s.db, id, patch)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var remover store.ImageRemover
	if s.images != nil {
		remover = s.images
	}

	result, err := store.DeleteProduct(c.Request.Context(), s.db, remover, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if !result.Deleted {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}

	for _, r := range result.Images {
		if r.Outcome != images.OutcomeDeleted {
			s.log.Warn("image not removed",
				zap.Int64("product_id", id),
				zap.String("path", r.Path),
				zap.String("outcome", string(r.Outcome)),
				zap.Error(r.Err))
		}
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) toggleFavorite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := store.ToggleFavorite(c.Request.Context(), s.db, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "product not found")
		return
	}

	product, err := store.GetProduct(c.Request.Context(), s.db, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (s *Server) sellProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.SalesRecord
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	record, err := store.SellProduct(c.Request.Context(), s.db, id, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// importImages copies local image files named in a request into the image
// store and rewrites the paths to the stored copies. Nil targets are skipped.
func (s *Server) importImages(c *gin.Context, imagePath *string, extra *models.ImageList) bool {
	if s.images == nil {
		return true
	}

	if imagePath != nil {
		stored, err := s.images.Import(*imagePath)
		if err != nil {
			c.Error(err)
			respondError(c, http.StatusInternalServerError, "image import failed")
			return false
		}
		*imagePath = stored
	}

	if extra != nil {
		out := make(models.ImageList, 0, len(*extra))
		for _, src := range *extra {
			stored, err := s.images.Import(src)
			if err != nil {
				c.Error(err)
				respondError(c, http.StatusInternalServerError, "image import failed")
				return false
			}
			if stored != "" {
				out = append(out, stored)
			}
		}
		*extra = out
	}

	return true
}
