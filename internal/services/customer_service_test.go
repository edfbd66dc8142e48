package services

import (
	"context"
	"errors"
	"testing"

	domain "github.com/techstore/api/internal/domain"
)

type stubCustomerRepository struct {
	findByEmailFn func(ctx context.Context, email string) (domain.Customer, error)
	insertFn      func(ctx context.Context, customer domain.Customer) (domain.Customer, error)
}

func (s *stubCustomerRepository) FindByEmail(ctx context.Context, email string) (domain.Customer, error) {
	if s.findByEmailFn == nil {
		return domain.Customer{}, errors.New("findByEmail not stubbed")
	}
	return s.findByEmailFn(ctx, email)
}

func (s *stubCustomerRepository) Insert(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if s.insertFn == nil {
		return domain.Customer{}, errors.New("insert not stubbed")
	}
	return s.insertFn(ctx, customer)
}

func newTestCustomerService(t *testing.T, repo *stubCustomerRepository) CustomerService {
	t.Helper()
	svc, err := NewCustomerService(CustomerServiceDeps{Customers: repo})
	if err != nil {
		t.Fatalf("NewCustomerService: %v", err)
	}
	return svc
}

func TestCustomerServiceFindOrCreateReturnsExistingUnchanged(t *testing.T) {
	stored := domain.Customer{
		ID:       3,
		FullName: "Layla Hassan",
		Email:    "layla@example.com",
		Address:  "Old Street 9",
		City:     "Basra",
	}
	repo := &stubCustomerRepository{
		findByEmailFn: func(_ context.Context, email string) (domain.Customer, error) {
			if email != "layla@example.com" {
				t.Fatalf("unexpected lookup email %q", email)
			}
			return stored, nil
		},
		insertFn: func(context.Context, domain.Customer) (domain.Customer, error) {
			t.Fatal("insert must not run when the customer exists")
			return domain.Customer{}, nil
		},
	}
	svc := newTestCustomerService(t, repo)

	got, err := svc.FindOrCreate(context.Background(), CustomerProfile{
		FullName: "Layla H.",
		Email:    "  layla@example.com ",
		Phone:    "123",
		Address:  "New Street 1",
		City:     "Erbil",
	})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if got.Address != "Old Street 9" || got.City != "Basra" {
		t.Fatalf("existing profile must be returned untouched, got %+v", got)
	}
}

func TestCustomerServiceFindOrCreateInsertsWhenMissing(t *testing.T) {
	var inserted domain.Customer
	repo := &stubCustomerRepository{
		findByEmailFn: func(context.Context, string) (domain.Customer, error) {
			return domain.Customer{}, &stubRepoError{notFound: true}
		},
		insertFn: func(_ context.Context, customer domain.Customer) (domain.Customer, error) {
			inserted = customer
			customer.ID = 11
			return customer, nil
		},
	}
	svc := newTestCustomerService(t, repo)

	got, err := svc.FindOrCreate(context.Background(), CustomerProfile{
		FullName: "Omar K",
		Email:    "omar@example.com",
		Phone:    "456",
		Address:  "Street 2",
		City:     "Mosul",
	})
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if got.ID != 11 {
		t.Fatalf("expected inserted id 11, got %d", got.ID)
	}
	if inserted.PostalCode != "00000" {
		t.Fatalf("expected default postal code, got %q", inserted.PostalCode)
	}
}

func TestCustomerServiceFindOrCreateRequiresEmail(t *testing.T) {
	svc := newTestCustomerService(t, &stubCustomerRepository{})
	_, err := svc.FindOrCreate(context.Background(), CustomerProfile{FullName: "No Email"})
	if !errors.Is(err, ErrCustomerInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCustomerServiceFindOrCreateConflictOnInsert(t *testing.T) {
	repo := &stubCustomerRepository{
		findByEmailFn: func(context.Context, string) (domain.Customer, error) {
			return domain.Customer{}, &stubRepoError{notFound: true}
		},
		insertFn: func(context.Context, domain.Customer) (domain.Customer, error) {
			return domain.Customer{}, &stubRepoError{conflict: true}
		},
	}
	svc := newTestCustomerService(t, repo)

	_, err := svc.FindOrCreate(context.Background(), CustomerProfile{Email: "dup@example.com"})
	if !errors.Is(err, ErrCustomerConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCustomerServiceFindOrCreateUnavailable(t *testing.T) {
	repo := &stubCustomerRepository{
		findByEmailFn: func(context.Context, string) (domain.Customer, error) {
			return domain.Customer{}, &stubRepoError{unavailable: true}
		},
	}
	svc := newTestCustomerService(t, repo)

	_, err := svc.FindOrCreate(context.Background(), CustomerProfile{Email: "x@example.com"})
	if !errors.Is(err, ErrCustomerUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
