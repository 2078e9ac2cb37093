package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aurorajewels/storefront/internal/cart/application"
	"github.com/aurorajewels/storefront/internal/cart/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/metrics"
	"github.com/aurorajewels/storefront/pkg/middleware"
	"github.com/aurorajewels/storefront/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CartHandler HTTP 处理器
// 负责处理购物车相关的 HTTP 请求，游客与登录用户共用同一套接口
type CartHandler struct {
	cmd     *application.CartCommandService
	query   *application.CartQueryService
	metrics *metrics.Metrics
}

// NewCartHandler 创建 HTTP 处理器实例
func NewCartHandler(cmd *application.CartCommandService, query *application.CartQueryService, m *metrics.Metrics) *CartHandler {
	return &CartHandler{cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/cart", h.GetCart)
	router.POST("/cart", h.AddLine)
	router.PUT("/cart/:id", h.UpdateQuantity)
	router.DELETE("/cart/:id", h.RemoveLine)
}

// ownerFromContext 从请求上下文提取归属键（登录用户优先）
func ownerFromContext(c *gin.Context) domain.Owner {
	return domain.Owner{
		UserID:    c.GetString(middleware.UserIDKey),
		SessionID: c.GetString(middleware.SessionIDKey),
	}
}

// GetCart 获取购物车（用户行与会话行的并集，带实时价格）
func (h *CartHandler) GetCart(c *gin.Context) {
	lines, err := h.query.GetLines(c.Request.Context(), ownerFromContext(c))
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get cart", "error", err)
		response.Error(c, "failed to get cart")
		return
	}
	response.Success(c, lines)
}

// AddLineRequest 加购请求
type AddLineRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	VariantID uint `json:"variantId"`
	Quantity  int  `json:"quantity" binding:"required"`
}

// AddLine 加购
func (h *CartHandler) AddLine(c *gin.Context) {
	var req AddLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	line, err := h.cmd.AddLine(c.Request.Context(), application.AddLineCommand{
		Owner:     ownerFromContext(c),
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrMissingOwner):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, gorm.ErrRecordNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "product not found", "")
		case errors.Is(err, domain.ErrVariantNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "product variant not found", "")
		default:
			logger.Error(c.Request.Context(), "Failed to add cart line", "error", err)
			response.Error(c, "failed to add to cart")
		}
		return
	}

	if h.metrics != nil {
		h.metrics.CartItemsAdded.Inc()
	}
	response.Created(c, line)
}

// UpdateQuantityRequest 修改数量请求
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateQuantity 修改购物车行数量
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid cart line id", "")
		return
	}

	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	line, err := h.cmd.UpdateQuantity(c.Request.Context(), application.UpdateQuantityCommand{
		Owner:    ownerFromContext(c),
		LineID:   uint(id),
		Quantity: req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidQuantity), errors.Is(err, domain.ErrMissingOwner):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, domain.ErrLineNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "cart line not found", "")
		default:
			logger.Error(c.Request.Context(), "Failed to update cart line", "line_id", id, "error", err)
			response.Error(c, "failed to update cart")
		}
		return
	}

	response.Success(c, line)
}

// RemoveLine 移除购物车行
func (h *CartHandler) RemoveLine(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid cart line id", "")
		return
	}

	err = h.cmd.RemoveLine(c.Request.Context(), application.RemoveLineCommand{
		Owner:  ownerFromContext(c),
		LineID: uint(id),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLineNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "cart line not found", "")
		case errors.Is(err, domain.ErrMissingOwner):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		default:
			logger.Error(c.Request.Context(), "Failed to remove cart line", "line_id", id, "error", err)
			response.Error(c, "failed to remove cart line")
		}
		return
	}

	response.NoContent(c)
}
