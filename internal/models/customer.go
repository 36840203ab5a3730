package models

import "time"

// CreatedLayout is the date format used when a customer is serialized.
const CreatedLayout = "2006/01/02"

// Customer holds the credentials of an account. The password column only
// ever stores a bcrypt hash and is never serialized.
type Customer struct {
	ID           uint         `gorm:"primaryKey"`
	Email        string       `gorm:"index;not null"`
	PasswordHash string       `gorm:"column:password;not null"`
	Active       bool         `gorm:"not null"`
	Data         CustomerData `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (Customer) TableName() string { return "customer" }

// CustomerData is the profile owned 1:1 by a Customer.
type CustomerData struct {
	ID         uint      `gorm:"primaryKey"`
	CustomerID uint      `gorm:"uniqueIndex;not null"`
	FirstName  string    `gorm:"not null"`
	LastName   string    `gorm:"not null"`
	Cellphone  string    `gorm:"not null"`
	Newsletter bool      `gorm:"not null"`
	CreatedAt  time.Time `gorm:"column:created"`
}

func (CustomerData) TableName() string { return "customer_data" }

// NewCustomer returns an inactive customer with an empty profile.
// passwordHash must already be hashed.
func NewCustomer(email, passwordHash string) *Customer {
	return &Customer{
		Email:        email,
		PasswordHash: passwordHash,
		Active:       false,
		Data:         CustomerData{CreatedAt: time.Now()},
	}
}

// Profile is a partial update of CustomerData. Nil fields are left as is.
type Profile struct {
	FirstName  *string
	LastName   *string
	Cellphone  *string
	Newsletter *bool
}

// Apply overwrites the fields set in p, empty strings included.
func (p Profile) Apply(d *CustomerData) {
	if p.FirstName != nil {
		d.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		d.LastName = *p.LastName
	}
	if p.Cellphone != nil {
		d.Cellphone = *p.Cellphone
	}
	if p.Newsletter != nil {
		d.Newsletter = *p.Newsletter
	}
}

type CustomerJSON struct {
	ID    uint             `json:"id"`
	Email string           `json:"email"`
	Data  CustomerDataJSON `json:"data"`
}

type CustomerDataJSON struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Cellphone  string `json:"cellphone"`
	Newsletter bool   `json:"newsletter"`
	Created    string `json:"created"`
}

// JSON is the public projection of a customer.
func (c *Customer) JSON() CustomerJSON {
	return CustomerJSON{
		ID:    c.ID,
		Email: c.Email,
		Data: CustomerDataJSON{
			FirstName:  c.Data.FirstName,
			LastName:   c.Data.LastName,
			Cellphone:  c.Data.Cellphone,
			Newsletter: c.Data.Newsletter,
			Created:    c.Data.CreatedAt.Format(CreatedLayout),
		},
	}
}
