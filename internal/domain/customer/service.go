package customer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	customers Repository
}

func NewService(customers Repository) *Service {
	return &Service{customers: customers}
}

func (s *Service) CreateCustomer(ctx context.Context, c *Customer) error {
	if c.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return s.customers.Create(ctx, c)
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *Service) GetCustomerByCode(ctx context.Context, customerID string) (*Customer, error) {
	return s.customers.GetByCode(ctx, customerID)
}

func (s *Service) UpdateCustomer(ctx context.Context, c *Customer) error {
	if c.FullName == "" {
		return fmt.Errorf("full_name is required")
	}
	return s.customers.Update(ctx, c)
}

func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.customers.Delete(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, limit, offset int) ([]*Customer, int, error) {
	return s.customers.List(ctx, limit, offset)
}
