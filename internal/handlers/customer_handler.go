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

const customersResource = "clientes"

// CustomerHandler serves /clientes.
type CustomerHandler struct {
	repo *repository.CustomerRepository
	pipe *pipeline.Pipeline
}

func NewCustomerHandler(repo *repository.CustomerRepository, pipe *pipeline.Pipeline) *CustomerHandler {
	return &CustomerHandler{repo: repo, pipe: pipe}
}

// List handles GET /clientes
func (h *CustomerHandler) List(c *gin.Context) {
	h.pipe.Read(c, func(ctx context.Context, db *gorm.DB) (any, error) {
		return h.repo.List(ctx, db)
	})
}

// Get handles GET /clientes/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	h.pipe.Read(c, func(ctx context.Context, db *gorm.DB) (any, error) {
		id, err := parseID(c)
		if err != nil {
			return nil, err
		}
		return h.repo.Get(ctx, db, id)
	})
}

// Create handles POST /clientes
func (h *CustomerHandler) Create(c *gin.Context) {
	h.pipe.Mutate(c, customersResource, func(ctx context.Context, db *gorm.DB) (pipeline.Result, error) {
		var fields models.CustomerFields
		if err := bindFields(c, &fields); err != nil {
			return pipeline.Result{}, err
		}
		customer, err := h.repo.Create(ctx, db, fields)
		if err != nil {
			return pipeline.Result{}, err
		}
		return pipeline.Result{
			Status: http.StatusCreated,
			Body: gin.H{
				"id":        customer.ID,
				"nome":      customer.FirstName,
				"sobrenome": customer.LastName,
				"email":     customer.Email,
				"idade":     customer.Age,
				"message":   "Cliente cadastrado com sucesso",
			},
			Action: "created",
			ID:     customer.ID,
		}, nil
	})
}

// Replace handles PUT /clientes/:id
func (h *CustomerHandler) Replace(c *gin.Context) {
	h.pipe.Mutate(c, customersResource, func(ctx context.Context, db *gorm.DB) (pipeline.Result, error) {
		id, err := parseID(c)
		if err != nil {
			return pipeline.Result{}, err
		}
		var fields models.CustomerFields
		if err := bindFields(c, &fields); err != nil {
			return pipeline.Result{}, err
		}
		if err := h.repo.Replace(ctx, db, id, fields); err != nil {
			return pipeline.Result{}, err
		}
		return pipeline.Result{
			Status: http.StatusOK,
			Body:   gin.H{"message": "Cliente atualizado com sucesso"},
			Action: "replaced",
			ID:     id,
		}, nil
	})
}

// Delete handles DELETE /clientes/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	h.pipe.Mutate(c, customersResource, func(ctx context.Context, db *gorm.DB) (pipeline.Result, error) {
		id, err := parseID(c)
		if err != nil {
			return pipeline.Result{}, err
		}
		if err := h.repo.Delete(ctx, db, id); err != nil {
			return pipeline.Result{}, err
		}
		return pipeline.Result{
			Status: http.StatusOK,
			Body:   gin.H{"message": "Cliente removido com sucesso"},
			Action: "deleted",
			ID:     id,
		}, nil
	})
}
