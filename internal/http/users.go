package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
)

type UsersController struct {
	store UserStore
	audit *audit.Service
}

func NewUsersController(store UserStore, auditService *audit.Service) *UsersController {
	return &UsersController{
		store: store,
		audit: auditService,
	}
}

func (controller *UsersController) List(c *gin.Context) {
	c.JSON(http.StatusOK, controller.store.ListUsers(parseListQuery(c)))
}

func (controller *UsersController) Get(c *gin.Context) {
	user, err := controller.store.GetUser(c.Param("id"))
	if err != nil {
		respondCatalogError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// Create inserts or replaces a user, then regenerates its recommendations.
func (controller *UsersController) Create(c *gin.Context) {
	var body entities.User
	if !bindJSON(c, &body) {
		return
	}

	user, res, err := controller.store.CreateUser(body)
	if err != nil {
		respondCatalogError(c, err, "create user")
		return
	}

	controller.audit.LogMutation(entities.AuditEventCreate, catalog.KindUser, user.ID, requestID(c), user, res.Total)
	respondCreated(c, user)
}

// Update replaces every field of an existing user. The id in the path wins
// over any id in the body.
func (controller *UsersController) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := controller.store.GetUser(id); err != nil {
		respondCatalogError(c, err, "update user")
		return
	}

	var body entities.User
	if !bindJSON(c, &body) {
		return
	}

	user, res, err := controller.store.UpdateUser(id, body)
	if err != nil {
		respondCatalogError(c, err, "update user")
		return
	}

	controller.audit.LogMutation(entities.AuditEventUpdate, catalog.KindUser, user.ID, requestID(c), user, res.Total)
	c.JSON(http.StatusOK, user)
}

func (controller *UsersController) Delete(c *gin.Context) {
	id := c.Param("id")
	res, err := controller.store.DeleteUser(id)
	if err != nil {
		respondCatalogError(c, err, "delete user")
		return
	}

	controller.audit.LogMutation(entities.AuditEventDelete, catalog.KindUser, id, requestID(c), nil, res.Total)
	respondNoContent(c)
}
