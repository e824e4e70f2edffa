package handlers

import (
	"context"
	"net/http"

	"catalog-api/internal/models"
	"catalog-api/internal/pipeline"
	"catalog-api/internal/repository"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const productsResource = "produtos"

// ProductHandler serves /produtos.
type ProductHandler struct {
	repo *repository.ProductRepository
	pipe *pipeline.Pipeline
}

func NewProductHandler(repo *repository.ProductRepository, pipe *pipeline.Pipeline) *ProductHandler {
	return &ProductHandler{repo: repo, pipe: pipe}
}

// List handles GET /produtos
func (h *ProductHandler) List(c *gin.Context) {
	h.pipe.Read(c, func(ctx context.Context, db *gorm.DB) (any, error) {
		return h.repo.List(ctx, db)
	})
}

// Get handles GET /produtos/:id
func (h *ProductHandler) Get(c *gin.Context) {
	h.pipe.Read(c, func(ctx context.Context, db *gorm.DB) (any, error) {
		id, err := parseID(c)
		if err != nil {
			return nil, err
		}
		return h.repo.Get(ctx, db, id)
	})
}

// Create handles POST /produtos
// Responds 201 with the stored product and a message.
func (h *ProductHandler) Create(c *gin.Context) {
	h.pipe.Mutate(c, productsResource, func(ctx context.Context, db *gorm.DB) (pipeline.Result, error) {
		var fields models.ProductFields
		if err := bindFields(c, &fields); err != nil {
			return pipeline.Result{}, err
		}
		product, err := h.repo.Create(ctx, db, fields)
		if err != nil {
			return pipeline.Result{}, err
		}
		return pipeline.Result{
			Status: http.StatusCreated,
			Body: gin.H{
				"id":      product.ID,
				"nome":    product.Name,
				"preco":   product.Price,
				"message": "Produto cadastrado com sucesso",
			},
			Action: "created",
			ID:     product.ID,
		}, nil
	})
}

// Replace handles PUT /produtos/:id
// Both nome and preco are required; the record is replaced as a whole.
func (h *ProductHandler) Replace(c *gin.Context) {
	h.pipe.Mutate(c, productsResource, func(ctx context.Context, db *gorm.DB) (pipeline.Result, error) {
		id, err := parseID(c)
		if err != nil {
			return pipeline.Result{}, err
		}
		var fields models.ProductFields
		if err := bindFields(c, &fields); err != nil {
			return pipeline.Result{}, err
		}
		if err := h.repo.Replace(ctx, db, id, fields); err != nil {
			return pipeline.Result{}, err
		}
		return pipeline.Result{
			Status: http.StatusOK,
			Body:   gin.H{"message": "Produto atualizado com sucesso"},
			Action: "replaced",
			ID:     id,
		}, nil
	})
}

// Delete handles DELETE /produtos/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	h.pipe.Mutate(c, productsResource, func(ctx context.Context, db *gorm.DB) (pipeline.Result, error) {
		id, err := parseID(c)
		if err != nil {
			return pipeline.Result{}, err
		}
		if err := h.repo.Delete(ctx, db, id); err != nil {
			return pipeline.Result{}, err
		}
		return pipeline.Result{
			Status: http.StatusOK,
			Body:   gin.H{"message": "Produto removido com sucesso"},
			Action: "deleted",
			ID:     id,
		}, nil
	})
}
