// internal/handlers/history.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/shopkz-search/internal/services"
	"github.com/javajoker/shopkz-search/internal/utils"
)

type HistoryHandler struct {
	historyService *services.HistoryService
}

func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
	}
}

// GET /history?limit=
func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(services.DefaultHistoryLimit)))
	if err != nil {
		limit = services.DefaultHistoryLimit
	}

	history, err := h.historyService.GetSearchHistory(c.Request.Context(), limit)
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"history": history,
	})
}

// GET /products/:id
func (h *HistoryHandler) GetProductsByQueryID(c *gin.Context) {
	queryID, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		utils.InvalidQueryIDResponse(c)
		return
	}

	products, err := h.historyService.GetProductsByQueryID(c.Request.Context(), uint(queryID))
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"results": products,
	})
}

// GET /products/search/:text
func (h *HistoryHandler) GetProductsByQueryText(c *gin.Context) {
	products, err := h.historyService.GetProductsByQueryText(c.Request.Context(), c.Param("text"))
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"results": products,
	})
}

// GET /statistics
func (h *HistoryHandler) GetStatistics(c *gin.Context) {
	stats, err := h.historyService.GetStatistics(c.Request.Context())
	if err != nil {
		h.storageFailure(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

func (h *HistoryHandler) storageFailure(c *gin.Context, err error) {
	logrus.WithFields(logrus.Fields{
		"path":       c.Request.URL.Path,
		"request_id": utils.GetRequestIDFromContext(c),
	}).WithError(err).Error("Storage read failed")
	utils.InternalErrorResponse(c, err.Error())
}
