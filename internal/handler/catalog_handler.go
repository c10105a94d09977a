package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nerdgeek/tienda/internal/models"
	"github.com/nerdgeek/tienda/internal/service"
	"github.com/nerdgeek/tienda/pkg/logger"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// Home lists the product catalog.
// GET /
func (h *CatalogHandler) Home(c *gin.Context) {
	products, err := h.catalogService.ListProducts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productos": products,
		"count":     len(products),
	})
}

// Nosotros is the static about page.
// GET /nosotros
func (h *CatalogHandler) Nosotros(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nombre":      "NerdGeek",
		"descripcion": "Tienda de personalización: sublimación, transfer y enmarcado fotográfico.",
		"contacto":    "contacto@nerdgeek.cl",
	})
}

// Gallery lists example photos for one product category.
// GET /galeria/:categoria
func (h *CatalogHandler) Gallery(c *gin.Context) {
	categoria := models.ProductCategory(c.Param("categoria"))

	examples, err := h.catalogService.ListGallery(categoria)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Categoría desconocida"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load gallery"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categoria": categoria,
		"ejemplos":  examples,
	})
}

type ProductRequest struct {
	Nombre           string `json:"nombre" binding:"required"`
	Descripcion      string `json:"descripcion"`
	PrecioBase       string `json:"precio_base" binding:"required"`
	Categoria        string `json:"categoria" binding:"required"`
	ImagenReferencia string `json:"imagen_referencia"`
}

// CreateProduct adds a catalog entry.
// POST /admin/productos
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product := &models.Product{
		Nombre:           req.Nombre,
		Descripcion:      req.Descripcion,
		PrecioBase:       req.PrecioBase,
		Categoria:        models.ProductCategory(req.Categoria),
		ImagenReferencia: req.ImagenReferencia,
	}

	if err := h.catalogService.CreateProduct(product); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrInvalidCategory) {
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	logger.Log.Info("Admin created product",
		zap.Uint("product_id", product.ID),
		zap.String("admin", c.GetString("username")),
	)

	c.JSON(http.StatusCreated, gin.H{"producto": product})
}

// UpdateProduct edits a catalog entry.
// PUT /admin/productos/:id
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	product := &models.Product{
		ID:               uint(id),
		Nombre:           req.Nombre,
		Descripcion:      req.Descripcion,
		PrecioBase:       req.PrecioBase,
		Categoria:        models.ProductCategory(req.Categoria),
		ImagenReferencia: req.ImagenReferencia,
	}

	if err := h.catalogService.UpdateProduct(product); err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, service.ErrInvalidCategory):
			statusCode = http.StatusBadRequest
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"producto": product})
}

type ExampleRequest struct {
	Imagen string `json:"imagen" binding:"required"`
}

// AddExample attaches a gallery photo to a product.
// POST /admin/productos/:id/ejemplos
func (h *CatalogHandler) AddExample(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var req ExampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	example := &models.ExampleImage{
		ProductID: uint(id),
		Imagen:    req.Imagen,
	}

	if err := h.catalogService.AddExample(example); err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, service.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ejemplo": example})
}

// DeleteProduct removes a catalog entry unless orders reference it.
// DELETE /admin/productos/:id
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.catalogService.DeleteProduct(uint(id)); err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, service.ErrProductInUse):
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Producto eliminado"})
}
