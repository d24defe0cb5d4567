package handlers

import (
	"errors"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/stockpilot/internal/domain"
	"github.com/mamadbah2/stockpilot/internal/domain/models"
)

// ListProducts refreshes and returns the catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.terminal.Products(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct registers a product.
func (h *Handler) CreateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "create product", err)
		return
	}

	product, err := h.terminal.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct overwrites a product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := pathInt(c, "id")
	if err != nil {
		h.badRequest(c, "update product", err)
		return
	}
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.badRequest(c, "update product", err)
		return
	}

	product, err := h.terminal.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := pathInt(c, "id")
	if err != nil {
		h.badRequest(c, "delete product", err)
		return
	}
	if err := h.terminal.DeleteProduct(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ImportProducts forwards an uploaded spreadsheet in the "file" field.
func (h *Handler) ImportProducts(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		h.badRequest(c, "import products", err)
		return
	}
	file, err := header.Open()
	if err != nil {
		h.badRequest(c, "import products", err)
		return
	}
	defer file.Close()

	result, err := h.terminal.ImportProducts(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExportProducts saves the catalog spreadsheet and sends it back as an attachment.
func (h *Handler) ExportProducts(c *gin.Context) {
	path, err := h.terminal.ExportProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}

type scanRequest struct {
	Code string `json:"code"`
}

// Scan resolves a QR or barcode read by the client. A 404 carries the code
// back so the client can offer to create the product.
func (h *Handler) Scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "scan", err)
		return
	}

	product, err := h.terminal.ScanCode(req.Code)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": domain.Notice(err), "sku": req.Code})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
