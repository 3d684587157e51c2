// Package handler exposes the application services over HTTP.
package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/snapbill/snapbill/internal/models"
	"github.com/snapbill/snapbill/internal/service"
	"github.com/snapbill/snapbill/internal/storage"
)

// maxImageBytes caps uploaded receipt photos at 10 MB.
const maxImageBytes = 10 << 20

// ReceiptHandler handles receipt parsing, CRUD, assignment and splits.
type ReceiptHandler struct {
	receipts *service.ReceiptService
}

// NewReceiptHandler creates a ReceiptHandler backed by the given service.
func NewReceiptHandler(receipts *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts}
}

type parseTextRequest struct {
	Text string `json:"text" binding:"required"`
}

// ParseText accepts raw receipt text and returns the stored receipt.
func (h *ReceiptHandler) ParseText(c *gin.Context) {
	var req parseTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	result, err := h.receipts.ParseText(c.Request.Context(), req.Text)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"receipt": result.Receipt, "fallback": result.Fallback})
}

// ParseImage accepts a multipart "image" upload, runs OCR and parses it.
func (h *ReceiptHandler) ParseImage(c *gin.Context) {
	file, _, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}
	if len(data) > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	result, err := h.receipts.ParseImage(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"receipt": result.Receipt, "fallback": result.Fallback})
}

// Get returns a single receipt by ID.
func (h *ReceiptHandler) Get(c *gin.Context) {
	receipt, err := h.receipts.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// List returns summaries of all stored receipts, newest first.
func (h *ReceiptHandler) List(c *gin.Context) {
	summaries, err := h.receipts.ListReceipts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipts": summaries})
}

// Update replaces a stored receipt wholesale with the request body.
func (h *ReceiptHandler) Update(c *gin.Context) {
	var receipt models.Receipt
	if err := c.ShouldBindJSON(&receipt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid receipt"})
		return
	}
	receipt.ID = c.Param("id")

	if err := h.receipts.UpdateReceipt(c.Request.Context(), &receipt); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// Delete removes a receipt.
func (h *ReceiptHandler) Delete(c *gin.Context) {
	if err := h.receipts.DeleteReceipt(c.Request.Context(), c.Param("id")); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Assign adds a person to an item's assignment set.
func (h *ReceiptHandler) Assign(c *gin.Context) {
	err := h.receipts.AssignItem(c.Request.Context(), c.Param("itemID"), c.Param("personID"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Unassign removes a person from an item's assignment set.
func (h *ReceiptHandler) Unassign(c *gin.Context) {
	err := h.receipts.UnassignItem(c.Request.Context(), c.Param("itemID"), c.Param("personID"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Split computes the per-person allocation for a receipt.
func (h *ReceiptHandler) Split(c *gin.Context) {
	split, err := h.receipts.ComputeSplit(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shares": split.Shares, "unassigned": split.Unassigned})
}

func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
