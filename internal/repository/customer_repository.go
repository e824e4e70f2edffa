package repository

import (
	"context"
	"errors"

	"catalog-api/internal/apperr"
	"catalog-api/internal/models"

	"gorm.io/gorm"
)

// CustomerRepository runs customer statements on the connection passed to
// each call. It holds no connection of its own.
type CustomerRepository struct{}

// NewCustomerRepository returns a CustomerRepository.
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

const customerResource = "Cliente"

// List returns every customer ordered by id.
func (r *CustomerRepository) List(ctx context.Context, db *gorm.DB) ([]models.Customer, error) {
	customers := make([]models.Customer, 0)
	if err := db.WithContext(ctx).Order("id asc").Find(&customers).Error; err != nil {
		return nil, apperr.Transport("listar clientes", err)
	}
	return customers, nil
}

// Get returns the customer with the given id.
func (r *CustomerRepository) Get(ctx context.Context, db *gorm.DB, id int64) (models.Customer, error) {
	var customer models.Customer
	err := db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, apperr.NotFound(customerResource, id)
		}
		return models.Customer{}, apperr.Transport("buscar cliente", err)
	}
	return customer, nil
}

// Create validates fields and inserts a new customer, returning it with the
// generated id.
func (r *CustomerRepository) Create(ctx context.Context, db *gorm.DB, fields models.CustomerFields) (models.Customer, error) {
	if err := checkRequired(fields); err != nil {
		return models.Customer{}, err
	}
	customer := models.Customer{
		FirstName: *fields.FirstName,
		LastName:  *fields.LastName,
		Email:     *fields.Email,
		Age:       *fields.Age,
	}
	if err := db.WithContext(ctx).Create(&customer).Error; err != nil {
		return models.Customer{}, apperr.Transport("cadastrar cliente", err)
	}
	return customer, nil
}

// Replace overwrites nome, sobrenome, email and idade of an existing customer.
func (r *CustomerRepository) Replace(ctx context.Context, db *gorm.DB, id int64, fields models.CustomerFields) error {
	if err := checkRequired(fields); err != nil {
		return err
	}
	res := db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(map[string]any{
		"nome":      *fields.FirstName,
		"sobrenome": *fields.LastName,
		"email":     *fields.Email,
		"idade":     *fields.Age,
	})
	if res.Error != nil {
		return apperr.Transport("atualizar cliente", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(customerResource, id)
	}
	return nil
}

// Delete removes the customer with the given id.
func (r *CustomerRepository) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&models.Customer{})
	if res.Error != nil {
		return apperr.Transport("remover cliente", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(customerResource, id)
	}
	return nil
}
