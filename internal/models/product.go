package models

// Product represents a product in the catalog
type Product struct {
	ID    int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string  `json:"nome" gorm:"column:nome;not null"`
	Price float64 `json:"preco" gorm:"column:preco;not null"`
}

// TableName specifies the table name for Product Model
func (Product) TableName() string {
	return "produtos"
}

// ProductFields is the writable part of a Product, as sent on POST and PUT.
// Pointers distinguish an absent field from a zero value.
type ProductFields struct {
	Name  *string  `json:"nome" validate:"required,notblank"`
	Price *float64 `json:"preco" validate:"required"`
}
