package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/proffyhq/proffy-api/internal/models"
	appErrors "github.com/proffyhq/proffy-api/pkg/errors"
	"github.com/proffyhq/proffy-api/pkg/pagination"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data       interface{}        `json:"data,omitempty"`
	Error      *appErrors.Error   `json:"error,omitempty"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pag *models.Pagination) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, Envelope{Data: data, Pagination: pag})
}

// Paginated sends a page of results carrying the X-Total-Count header and,
// when sibling pages exist, an RFC 5988 Link header.
func Paginated(c *gin.Context, data interface{}, pag *models.Pagination, links []pagination.Link) {
	c.Header("X-Total-Count", strconv.Itoa(pag.TotalCount))
	if header := pagination.FormatLinkHeader(links); header != "" {
		c.Header("Link", header)
	}
	JSON(c, http.StatusOK, data, pag)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
