package repository

import (
	"context"
	"errors"

	"catalog-api/internal/apperr"
	"catalog-api/internal/models"

	"gorm.io/gorm"
)

// ProductRepository runs product statements on the connection passed to each
// call. It holds no connection of its own.
type ProductRepository struct{}

// NewProductRepository returns a ProductRepository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{}
}

const productResource = "Produto"

// List returns every product ordered by id.
func (r *ProductRepository) List(ctx context.Context, db *gorm.DB) ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := db.WithContext(ctx).Order("id asc").Find(&products).Error; err != nil {
		return nil, apperr.Transport("listar produtos", err)
	}
	return products, nil
}

// Get returns the product with the given id.
func (r *ProductRepository) Get(ctx context.Context, db *gorm.DB, id int64) (models.Product, error) {
	var product models.Product
	err := db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, apperr.NotFound(productResource, id)
		}
		return models.Product{}, apperr.Transport("buscar produto", err)
	}
	return product, nil
}

// Create validates fields and inserts a new product, returning it with the
// generated id.
func (r *ProductRepository) Create(ctx context.Context, db *gorm.DB, fields models.ProductFields) (models.Product, error) {
	if err := checkRequired(fields); err != nil {
		return models.Product{}, err
	}
	product := models.Product{Name: *fields.Name, Price: *fields.Price}
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return models.Product{}, apperr.Transport("cadastrar produto", err)
	}
	return product, nil
}

// Replace overwrites nome and preco of an existing product.
func (r *ProductRepository) Replace(ctx context.Context, db *gorm.DB, id int64, fields models.ProductFields) error {
	if err := checkRequired(fields); err != nil {
		return err
	}
	res := db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).
		Updates(map[string]any{"nome": *fields.Name, "preco": *fields.Price})
	if res.Error != nil {
		return apperr.Transport("atualizar produto", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(productResource, id)
	}
	return nil
}

// Delete removes the product with the given id.
func (r *ProductRepository) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return apperr.Transport("remover produto", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(productResource, id)
	}
	return nil
}
