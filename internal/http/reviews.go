package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
)

// recordRef is how requests point at an existing user or book: {"id": "..."}.
// Any other fields sent alongside the id are ignored.
type recordRef struct {
	ID string `json:"id"`
}

func (r *recordRef) id() string {
	if r == nil {
		return ""
	}
	return r.ID
}

func (r *recordRef) optionalID() *string {
	if r == nil {
		return nil
	}
	return &r.ID
}

type createReviewRequest struct {
	ID      string     `json:"id"`
	User    *recordRef `json:"user"`
	Book    *recordRef `json:"book"`
	Rating  int        `json:"rating"`
	Comment string     `json:"comment"`
}

type updateReviewRequest struct {
	User    *recordRef `json:"user"`
	Book    *recordRef `json:"book"`
	Rating  *int       `json:"rating"`
	Comment *string    `json:"comment"`
}

type ReviewsController struct {
	store ReviewStore
	audit *audit.Service
}

func NewReviewsController(store ReviewStore, auditService *audit.Service) *ReviewsController {
	return &ReviewsController{
		store: store,
		audit: auditService,
	}
}

func (controller *ReviewsController) List(c *gin.Context) {
	c.JSON(http.StatusOK, controller.store.ListReviews(parseListQuery(c)))
}

func (controller *ReviewsController) Get(c *gin.Context) {
	review, err := controller.store.GetReview(c.Param("id"))
	if err != nil {
		respondCatalogError(c, err, "get review")
		return
	}
	c.JSON(http.StatusOK, review)
}

// Create stores a review for an existing user and book. The review embeds
// copies of both as they are now.
func (controller *ReviewsController) Create(c *gin.Context) {
	var body createReviewRequest
	if !bindJSON(c, &body) {
		return
	}

	review, err := controller.store.CreateReview(catalog.ReviewInput{
		ID:      body.ID,
		UserID:  body.User.id(),
		BookID:  body.Book.id(),
		Rating:  body.Rating,
		Comment: body.Comment,
	})
	if err != nil {
		respondCatalogError(c, err, "create review")
		return
	}

	controller.audit.LogMutation(entities.AuditEventCreate, catalog.KindReview, review.ID, requestID(c), review, 0)
	respondCreated(c, review)
}

// Update merges the supplied fields. A user or book id that does not exist
// leaves that snapshot unchanged.
func (controller *ReviewsController) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := controller.store.GetReview(id); err != nil {
		respondCatalogError(c, err, "update review")
		return
	}

	var body updateReviewRequest
	if !bindJSON(c, &body) {
		return
	}

	review, err := controller.store.UpdateReview(id, catalog.ReviewPatch{
		UserID:  body.User.optionalID(),
		BookID:  body.Book.optionalID(),
		Rating:  body.Rating,
		Comment: body.Comment,
	})
	if err != nil {
		respondCatalogError(c, err, "update review")
		return
	}

	controller.audit.LogMutation(entities.AuditEventUpdate, catalog.KindReview, review.ID, requestID(c), review, 0)
	c.JSON(http.StatusOK, review)
}

func (controller *ReviewsController) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := controller.store.DeleteReview(id); err != nil {
		respondCatalogError(c, err, "delete review")
		return
	}

	controller.audit.LogMutation(entities.AuditEventDelete, catalog.KindReview, id, requestID(c), nil, 0)
	respondNoContent(c)
}
