package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aurorajewels/storefront/internal/catalog/application"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminCatalogHandler 后台商品/轮播图管理处理器
type AdminCatalogHandler struct {
	cmd   *application.CatalogCommandService
	query *application.CatalogQueryService
}

// NewAdminCatalogHandler 创建后台处理器实例
func NewAdminCatalogHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService) *AdminCatalogHandler {
	return &AdminCatalogHandler{cmd: cmd, query: query}
}

// RegisterRoutes 注册路由，调用方需挂载管理员鉴权中间件
func (h *AdminCatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/products", h.CreateProduct)
	router.PUT("/products/:id", h.UpdateProduct)
	router.DELETE("/products/:id", h.DeleteProduct)
	router.POST("/products/:id/variants", h.SaveVariant)
	router.DELETE("/products/:id/variants/:variantId", h.DeleteVariant)
	router.POST("/banners", h.SaveBanner)
	router.PUT("/banners/:id", h.UpdateBanner)
	router.DELETE("/banners/:id", h.DeleteBanner)
}

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Active      *bool   `json:"active"`
}

// CreateProduct 创建商品
func (h *AdminCatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	id, err := h.cmd.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Image:       req.Image,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to create product", "error", err)
		response.Error(c, "failed to create product")
		return
	}

	response.Created(c, gin.H{"product_id": id})
}

// UpdateProduct 更新商品
func (h *AdminCatalogHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	err = h.cmd.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ID:          uint(id),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Category:    req.Category,
		Image:       req.Image,
		Active:      active,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to update product", "product_id", id, "error", err)
		response.Error(c, "failed to update product")
		return
	}

	response.Success(c, gin.H{"product_id": id})
}

// DeleteProduct 删除商品
func (h *AdminCatalogHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	if err := h.cmd.DeleteProduct(c.Request.Context(), uint(id)); err != nil {
		logger.Error(c.Request.Context(), "Failed to delete product", "product_id", id, "error", err)
		response.Error(c, "failed to delete product")
		return
	}

	response.NoContent(c)
}

// VariantRequest 变体创建/更新请求
type VariantRequest struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name" binding:"required"`
	Price      float64 `json:"price" binding:"required,gt=0"`
	Stock      int     `json:"stock" binding:"gte=0"`
	Attributes string  `json:"attributes"`
}

// SaveVariant 新增或更新变体
func (h *AdminCatalogHandler) SaveVariant(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	var req VariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	id, err := h.cmd.SaveVariant(c.Request.Context(), application.SaveVariantCommand{
		ID:         req.ID,
		ProductID:  uint(productID),
		Name:       req.Name,
		Price:      req.Price,
		Stock:      req.Stock,
		Attributes: req.Attributes,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to save variant", "product_id", productID, "error", err)
		response.Error(c, "failed to save variant")
		return
	}

	response.Created(c, gin.H{"variant_id": id})
}

// DeleteVariant 删除变体
func (h *AdminCatalogHandler) DeleteVariant(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}
	variantID, err := strconv.ParseUint(c.Param("variantId"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid variant id", "")
		return
	}

	if err := h.cmd.DeleteVariant(c.Request.Context(), uint(productID), uint(variantID)); err != nil {
		logger.Error(c.Request.Context(), "Failed to delete variant", "variant_id", variantID, "error", err)
		response.Error(c, "failed to delete variant")
		return
	}

	response.NoContent(c)
}

// BannerRequest 轮播图创建/更新请求
type BannerRequest struct {
	Title    string `json:"title" binding:"required"`
	Image    string `json:"image" binding:"required"`
	Link     string `json:"link"`
	Position int    `json:"position"`
	Active   bool   `json:"active"`
}

// SaveBanner 创建轮播图
func (h *AdminCatalogHandler) SaveBanner(c *gin.Context) {
	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	id, err := h.cmd.SaveBanner(c.Request.Context(), application.SaveBannerCommand{
		Title:    req.Title,
		Image:    req.Image,
		Link:     req.Link,
		Position: req.Position,
		Active:   req.Active,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to save banner", "error", err)
		response.Error(c, "failed to save banner")
		return
	}

	response.Created(c, gin.H{"banner_id": id})
}

// UpdateBanner 更新轮播图
func (h *AdminCatalogHandler) UpdateBanner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid banner id", "")
		return
	}

	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	_, err = h.cmd.SaveBanner(c.Request.Context(), application.SaveBannerCommand{
		ID:       uint(id),
		Title:    req.Title,
		Image:    req.Image,
		Link:     req.Link,
		Position: req.Position,
		Active:   req.Active,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to update banner", "banner_id", id, "error", err)
		response.Error(c, "failed to update banner")
		return
	}

	response.Success(c, gin.H{"banner_id": id})
}

// DeleteBanner 删除轮播图
func (h *AdminCatalogHandler) DeleteBanner(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid banner id", "")
		return
	}

	if err := h.cmd.DeleteBanner(c.Request.Context(), uint(id)); err != nil {
		logger.Error(c.Request.Context(), "Failed to delete banner", "banner_id", id, "error", err)
		response.Error(c, "failed to delete banner")
		return
	}

	response.NoContent(c)
}
