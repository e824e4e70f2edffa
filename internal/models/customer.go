package models

// Customer represents a customer of the store
type Customer struct {
	ID        int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	FirstName string `json:"nome" gorm:"column:nome;not null"`
	LastName  string `json:"sobrenome" gorm:"column:sobrenome;not null"`
	Email     string `json:"email" gorm:"column:email;not null"`
	Age       int    `json:"idade" gorm:"column:idade;not null"`
}

// TableName specifies the table name for Customer Model
func (Customer) TableName() string {
	return "clientes"
}

// CustomerFields is the writable part of a Customer, as sent on POST and PUT.
type CustomerFields struct {
	FirstName *string `json:"nome" validate:"required,notblank"`
	LastName  *string `json:"sobrenome" validate:"required,notblank"`
	Email     *string `json:"email" validate:"required,notblank"`
	Age       *int    `json:"idade" validate:"required"`
}
