package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cogniseguros/pkg/utils"
)

const maxPageSize = 200

// pagination reads page and pageSize from the query string. It writes the
// error response itself and reports false when the values are invalid.
func pagination(c *gin.Context, defaultSize int) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page number")
		return 0, 0, false
	}

	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultSize)))
	if err != nil || pageSize < 1 || pageSize > maxPageSize {
		utils.RespondError(c, http.StatusBadRequest, "Invalid page size (must be 1-200)")
		return 0, 0, false
	}
	return page, pageSize, true
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}
