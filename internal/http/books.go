package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/audit"
	"github.com/mrlokans/bookreviews/internal/catalog"
	"github.com/mrlokans/bookreviews/internal/entities"
)

type BooksController struct {
	store BookStore
	audit *audit.Service
}

func NewBooksController(store BookStore, auditService *audit.Service) *BooksController {
	return &BooksController{
		store: store,
		audit: auditService,
	}
}

func (controller *BooksController) List(c *gin.Context) {
	c.JSON(http.StatusOK, controller.store.ListBooks(parseListQuery(c)))
}

func (controller *BooksController) Get(c *gin.Context) {
	book, err := controller.store.GetBook(c.Param("id"))
	if err != nil {
		respondCatalogError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// Create inserts or replaces a book, then regenerates its recommendations.
func (controller *BooksController) Create(c *gin.Context) {
	var body entities.Book
	if !bindJSON(c, &body) {
		return
	}

	book, res, err := controller.store.CreateBook(body)
	if err != nil {
		respondCatalogError(c, err, "create book")
		return
	}

	controller.audit.LogMutation(entities.AuditEventCreate, catalog.KindBook, book.ID, requestID(c), book, res.Total)
	respondCreated(c, book)
}

// Update replaces every field of an existing book. The id in the path wins
// over any id in the body.
func (controller *BooksController) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := controller.store.GetBook(id); err != nil {
		respondCatalogError(c, err, "update book")
		return
	}

	var body entities.Book
	if !bindJSON(c, &body) {
		return
	}

	book, res, err := controller.store.UpdateBook(id, body)
	if err != nil {
		respondCatalogError(c, err, "update book")
		return
	}

	controller.audit.LogMutation(entities.AuditEventUpdate, catalog.KindBook, book.ID, requestID(c), book, res.Total)
	c.JSON(http.StatusOK, book)
}

func (controller *BooksController) Delete(c *gin.Context) {
	id := c.Param("id")
	res, err := controller.store.DeleteBook(id)
	if err != nil {
		respondCatalogError(c, err, "delete book")
		return
	}

	controller.audit.LogMutation(entities.AuditEventDelete, catalog.KindBook, id, requestID(c), nil, res.Total)
	respondNoContent(c)
}
