// internal/handlers/search.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/shopkz-search/internal/services"
	"github.com/javajoker/shopkz-search/internal/utils"
)

type SearchHandler struct {
	searchService *services.SearchService
}

func NewSearchHandler(searchService *services.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// GET /search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	log := logrus.WithFields(logrus.Fields{
		"query":      query,
		"request_id": utils.GetRequestIDFromContext(c),
	})

	result, err := h.searchService.Search(c.Request.Context(), query)
	if err != nil {
		var upstreamErr *services.UpstreamError
		var validationErr *utils.ResultsValidationError

		switch {
		case errors.Is(err, services.ErrEmptyQuery):
			utils.BadRequestResponse(c)
		case errors.As(err, &upstreamErr):
			log.WithError(err).Warn("Upstream search failed")
			utils.BadGatewayResponse(c, upstreamErr.StatusCode)
		case errors.As(err, &validationErr):
			log.WithField("violations", len(validationErr.Errors)).Warn("Upstream results failed validation")
			utils.ValidationErrorResponse(c, validationErr)
		default:
			log.WithError(err).Error("Search failed")
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	// Persistence is best-effort: a failed save is logged and dropped.
	if !result.Saved.OK() {
		log.WithError(result.Saved.Err).Error("Failed to save search results")
	} else {
		log.WithFields(logrus.Fields{
			"search_query_id": result.Saved.QueryID,
			"products":        len(result.Results),
		}).Info("Search results saved")
	}

	utils.SuccessResponse(c, gin.H{
		"results": result.Results,
	})
}
