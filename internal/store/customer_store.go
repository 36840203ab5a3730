package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Keoroanthony/go-customers/internal/models"
)

// PageSize is the number of customers returned per admin listing page.
const PageSize = 5

// ErrNotFound is returned when no customer matches a lookup.
var ErrNotFound = errors.New("customer not found")

// CustomerStore specifies customer related database operations. Every
// mutating call commits before returning.
type CustomerStore interface {
	Create(ctx context.Context, c *models.Customer) error
	Update(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id uint) (*models.Customer, error)
	GetByEmail(ctx context.Context, email string) (*models.Customer, error)
	List(ctx context.Context, start, stop int) ([]models.Customer, error)
	Count(ctx context.Context) (int64, error)
	DeleteByID(ctx context.Context, id uint) (bool, error)
}

// GormCustomerStore implements CustomerStore using GORM.
type GormCustomerStore struct {
	db *gorm.DB
}

func NewGormCustomerStore(db *gorm.DB) *GormCustomerStore {
	return &GormCustomerStore{db: db}
}

// Create inserts the customer and its data in one transaction and writes the
// generated ids back onto c.
func (s *GormCustomerStore) Create(ctx context.Context, c *models.Customer) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Data").Create(c).Error; err != nil {
			return err
		}
		c.Data.CustomerID = c.ID
		return tx.Create(&c.Data).Error
	})
	if err != nil {
		return fmt.Errorf("create customer %q: %w", c.Email, err)
	}
	return nil
}

// Update saves both records by primary key, inserting any that are missing.
func (s *GormCustomerStore) Update(ctx context.Context, c *models.Customer) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Data").Save(c).Error; err != nil {
			return err
		}
		c.Data.CustomerID = c.ID
		return tx.Save(&c.Data).Error
	})
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	return nil
}

func (s *GormCustomerStore) GetByID(ctx context.Context, id uint) (*models.Customer, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *GormCustomerStore) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return s.first(ctx, "email = ?", email)
}

// List returns the customers in [start, stop) ordered by id.
func (s *GormCustomerStore) List(ctx context.Context, start, stop int) ([]models.Customer, error) {
	if start < 0 || stop <= start {
		return []models.Customer{}, nil
	}

	var customers []models.Customer
	err := s.db.WithContext(ctx).
		Preload("Data").
		Order("id").
		Offset(start).
		Limit(stop - start).
		Find(&customers).Error
	if err != nil {
		return nil, fmt.Errorf("list customers [%d, %d): %w", start, stop, err)
	}
	return customers, nil
}

func (s *GormCustomerStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return count, nil
}

// DeleteByID removes the customer and its data. It reports false when no
// customer has that id.
func (s *GormCustomerStore) DeleteByID(ctx context.Context, id uint) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("customer_id = ?", id).Delete(&models.CustomerData{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Customer{}, id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete customer %d: %w", id, err)
	}
	return deleted, nil
}

func (s *GormCustomerStore) first(ctx context.Context, query string, arg any) (*models.Customer, error) {
	var c models.Customer
	err := s.db.WithContext(ctx).Preload("Data").Where(query, arg).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}
