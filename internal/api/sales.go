package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/goldstock/internal/models"
	"github.com/safar/goldstock/internal/store"
)

func (s *Server) listSales(c *gin.Context) {
	start, err := models.ParseDate(c.Query("start_date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := models.ParseDate(c.Query("end_date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	records, err := store.SearchSalesRecords(c.Request.Context(), s.db, store.SalesFilter{
		StartDate:    start,
		EndDate:      end,
		CustomerName: c.Query("customer_name"),
		ProductName:  c.Query("product_name"),
	})
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

func (s *Server) createSale(c *gin.Context) {
	var req models.SalesRecord
	if !bindJSON(c, &req) {
		return
	}

	record, err := store.CreateSalesRecord(c.Request.Context(), s.db, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (s *Server) getSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	record, err := store.GetSalesRecord(c.Request.Context(), s.db, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) replaceSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.SalesRecord
	if !bindJSON(c, &req) {
		return
	}

	record, err := store.ReplaceSalesRecord(c.Request.Context(), s.db, id, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) patchSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch models.SalesRecordPatch
	if !bindJSON(c, &patch) {
		return
	}

	record, err := store.UpdateSalesRecord(c.Request.Context(), s.db, id, patch)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) deleteSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	deleted, err := store.DeleteSalesRecord(c.Request.Context(), s.db, id)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "sales record not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
