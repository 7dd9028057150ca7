package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/kilimo_api/internal/feed"
	"github.com/GTDGit/kilimo_api/internal/utils"
)

// respondError maps service errors to the API envelope. Data source
// failures are reported with a generic message; details stay in the logs.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrFetch):
		utils.Error(c, http.StatusBadGateway, "FETCH_FAILED", feed.DefaultFailureMessage)
	case errors.Is(err, utils.ErrExportURL):
		utils.Error(c, http.StatusInternalServerError, "EXPORT_UNAVAILABLE", "Could not export data")
	case errors.Is(err, utils.ErrInvalidCounty):
		utils.Error(c, http.StatusBadRequest, "INVALID_COUNTY", err.Error())
	case errors.Is(err, utils.ErrInvalidCriteria):
		utils.Error(c, http.StatusBadRequest, "INVALID_CRITERIA", err.Error())
	case errors.Is(err, feed.ErrNotFailed):
		utils.Error(c, http.StatusConflict, "NOT_FAILED", "Nothing to retry")
	default:
		utils.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
