package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aurorajewels/storefront/internal/order/application"
	"github.com/aurorajewels/storefront/internal/order/domain"
	"github.com/aurorajewels/storefront/pkg/logger"
	"github.com/aurorajewels/storefront/pkg/response"
	"github.com/aurorajewels/storefront/pkg/utils"
	"github.com/gin-gonic/gin"
)

// AdminOrderHandler 后台订单管理处理器
type AdminOrderHandler struct {
	cmd   *application.OrderCommandService
	query *application.OrderQueryService
}

// NewAdminOrderHandler 创建后台处理器实例
func NewAdminOrderHandler(cmd *application.OrderCommandService, query *application.OrderQueryService) *AdminOrderHandler {
	return &AdminOrderHandler{cmd: cmd, query: query}
}

// RegisterRoutes 注册路由，调用方需挂载管理员鉴权中间件
func (h *AdminOrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders", h.ListOrders)
	router.PUT("/orders/:id/status", h.UpdateStatus)
}

// ListOrders 后台订单列表，支持按状态过滤
func (h *AdminOrderHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	offset, limit := utils.NormalizePage(page, size)

	status := domain.Status(c.Query("status"))
	if status != "" && !status.Valid() {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid status filter", "")
		return
	}

	orders, total, err := h.query.ListAllOrders(c.Request.Context(), status, offset, limit)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to list orders", "error", err)
		response.Error(c, "failed to list orders")
		return
	}

	response.Success(c, gin.H{"orders": orders, "total": total, "page": page, "size": limit})
}

// UpdateStatusRequest 状态更新请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 更新订单状态，非法状态或非法迁移返回 400
func (h *AdminOrderHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid order id", "")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		return
	}

	order, err := h.cmd.UpdateStatus(c.Request.Context(), application.UpdateStatusCommand{
		OrderID:   uint(id),
		NewStatus: req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidStatus), errors.Is(err, domain.ErrInvalidStatusTransition):
			response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
		case errors.Is(err, domain.ErrOrderNotFound):
			response.ErrorWithStatus(c, http.StatusNotFound, "order not found", "")
		default:
			logger.Error(c.Request.Context(), "Failed to update order status", "order_id", id, "error", err)
			response.Error(c, "failed to update order status")
		}
		return
	}

	response.Success(c, order)
}
