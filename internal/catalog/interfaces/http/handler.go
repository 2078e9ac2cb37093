package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aurorajewels/storefront/internal/catalog/application"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/response"
	"github.com/aurorajewels/storefront/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CatalogHandler HTTP 处理器
// 负责处理商品目录的公开查询请求
type CatalogHandler struct {
	query *application.CatalogQueryService
}

// NewCatalogHandler 创建 HTTP 处理器实例
func NewCatalogHandler(query *application.CatalogQueryService) *CatalogHandler {
	return &CatalogHandler{query: query}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/products", h.ListProducts)
	router.GET("/products/:id", h.GetProduct)
	router.GET("/banners", h.ListBanners)
}

// ListProducts 分页获取商品列表
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	category := c.Query("category")

	offset, limit := utils.NormalizePage(page, size)

	products, total, err := h.query.ListProducts(c.Request.Context(), category, offset, limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list products", "error", err)
		response.Error(c, "failed to list products")
		return
	}

	response.Success(c, gin.H{"products": products, "total": total, "page": page, "size": limit})
}

// GetProduct 获取商品详情
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}

	product, err := h.query.GetProduct(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
			return
		}
		logger.Error(c.Request.Context(), "Failed to get product", "product_id", id, "error", err)
		response.Error(c, "failed to get product")
		return
	}

	response.Success(c, product)
}

// ListBanners 获取启用中的轮播图
func (h *CatalogHandler) ListBanners(c *gin.Context) {
	banners, err := h.query.ListBanners(c.Request.Context(), true)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list banners", "error", err)
		response.Error(c, "failed to list banners")
		return
	}
	response.Success(c, banners)
}
