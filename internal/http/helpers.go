package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/logging"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	logging.Ctx(c.Request.Context()).Error().Err(err).Str("context", context).Msg("internal error")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondCatalogError maps a catalog error onto a status code.
func respondCatalogError(c *gin.Context, err error, context string) {
	var nf *catalog.NotFoundError
	switch {
	case errors.As(err, &nf):
		respondNotFound(c, nf.Kind)
	case errors.Is(err, catalog.ErrNotFound):
		respondNotFound(c, "record")
	case errors.Is(err, catalog.ErrMalformedInput):
		respondBadRequest(c, err.Error())
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondNoContent sends a 204 No Content response.
func respondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// --- Parameter Parsing ---

// parseListQuery reads the listing parameters. Empty values count as absent.
func parseListQuery(c *gin.Context) catalog.Query {
	return catalog.Query{
		Search:      c.Query("search"),
		Sort:        c.Query("sort"),
		FilterKey:   c.Query("filterKey"),
		FilterValue: c.Query("filterValue"),
	}
}

// bindJSON decodes the request body or responds with 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requestID returns the id assigned by the RequestID middleware.
func requestID(c *gin.Context) string {
	return logging.RequestIDFromContext(c.Request.Context())
}
