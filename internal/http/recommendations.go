package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
)

// RecommendationsController serves the derived recommendation set. Ids are
// renumbered by every user or book write, so clients should not keep them.
type RecommendationsController struct {
	reader RecommendationReader
}

func NewRecommendationsController(reader RecommendationReader) *RecommendationsController {
	return &RecommendationsController{reader: reader}
}

func (controller *RecommendationsController) List(c *gin.Context) {
	c.JSON(http.StatusOK, controller.reader.ListRecommendations(parseListQuery(c)))
}

func (controller *RecommendationsController) Get(c *gin.Context) {
	rec, err := controller.reader.GetRecommendation(c.Param("id"))
	if err != nil {
		respondCatalogError(c, err, "get recommendation")
		return
	}
	c.JSON(http.StatusOK, rec)
}

type insertRecommendationRequest struct {
	ID   string     `json:"id"`
	User *recordRef `json:"user"`
	Book *recordRef `json:"book"`
}

// AdminController exposes operations that bypass the cascade rules.
type AdminController struct {
	writer RecommendationWriter
	audit  *audit.Service
}

func NewAdminController(writer RecommendationWriter, auditService *audit.Service) *AdminController {
	return &AdminController{writer: writer, audit: auditService}
}

// InsertRecommendation stores a recommendation without checking preferences.
// The entry is renumbered or pruned by the next cascade like any other.
func (controller *AdminController) InsertRecommendation(c *gin.Context) {
	var body insertRecommendationRequest
	if !bindJSON(c, &body) {
		return
	}

	rec, err := controller.writer.InsertRecommendation(catalog.RecommendationInput{
		ID:     body.ID,
		UserID: body.User.id(),
		BookID: body.Book.id(),
	})
	if err != nil {
		respondCatalogError(c, err, "insert recommendation")
		return
	}

	controller.audit.LogMutation(entities.AuditEventCreate, catalog.KindRecommendation, rec.ID, requestID(c), rec, 0)
	respondCreated(c, rec)
}
