package services

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/techstore/api/internal/domain"
	"github.com/techstore/api/internal/repositories"
)

// defaultPostalCode is substituted when the submitted profile omits one.
const defaultPostalCode = "00000"

var (
	// ErrCustomerInvalidInput indicates required profile fields were missing.
	ErrCustomerInvalidInput = errors.New("customer: invalid input")
	// ErrCustomerConflict indicates a concurrent insert for the same email won the race.
	// The submission is safe to retry from the top.
	ErrCustomerConflict = errors.New("customer: conflict")
	// ErrCustomerUnavailable indicates the persistence layer is unreachable.
	ErrCustomerUnavailable = errors.New("customer: unavailable")
)

// CustomerServiceDeps wires the dependencies required by the customer service.
type CustomerServiceDeps struct {
	Customers repositories.CustomerRepository
	Clock     func() time.Time
	Logger    func(ctx context.Context, event string, fields map[string]any)
}

type customerService struct {
	customers repositories.CustomerRepository
	clock     func() time.Time
	logger    func(context.Context, string, map[string]any)
}

// NewCustomerService constructs a CustomerService validating required dependencies.
func NewCustomerService(deps CustomerServiceDeps) (CustomerService, error) {
	if deps.Customers == nil {
		return nil, errors.New("customer service: customer repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &customerService{
		customers: deps.Customers,
		clock: func() time.Time {
			return clock().UTC()
		},
		logger: logger,
	}, nil
}

// FindOrCreate resolves the profile to a customer record. The lookup is an
// exact match on the stored email; when a record exists it is returned
// untouched, even when the submitted profile carries a different address.
// The read-then-write has a race window under concurrent identical-email
// submissions; the unique index on email is the backstop and the resulting
// conflict is retryable.
func (s *customerService) FindOrCreate(ctx context.Context, profile CustomerProfile) (domain.Customer, error) {
	if s == nil || s.customers == nil {
		return domain.Customer{}, ErrCustomerUnavailable
	}

	profile = normaliseProfile(profile)
	if profile.Email == "" {
		return domain.Customer{}, ErrCustomerInvalidInput
	}

	existing, err := s.customers.FindByEmail(ctx, profile.Email)
	if err == nil {
		return existing, nil
	}
	if translated := s.translateCustomerError(err); !errors.Is(translated, errCustomerNotFound) {
		return domain.Customer{}, translated
	}

	created, err := s.customers.Insert(ctx, domain.Customer{
		FullName:   profile.FullName,
		Email:      profile.Email,
		Phone:      profile.Phone,
		Address:    profile.Address,
		City:       profile.City,
		PostalCode: profile.PostalCode,
	})
	if err != nil {
		return domain.Customer{}, s.translateCustomerError(err)
	}

	s.logger(ctx, "customer.created", map[string]any{
		"customerId": created.ID,
	})
	return created, nil
}

// errCustomerNotFound is internal to the resolver; a missing customer is the
// create path, not a caller-visible failure.
var errCustomerNotFound = errors.New("customer: not found")

func (s *customerService) translateCustomerError(err error) error {
	if err == nil {
		return nil
	}
	var repoErr repositories.RepositoryError
	if errors.As(err, &repoErr) {
		switch {
		case repoErr.IsNotFound():
			return errCustomerNotFound
		case repoErr.IsConflict():
			return ErrCustomerConflict
		default:
			return ErrCustomerUnavailable
		}
	}
	return ErrCustomerUnavailable
}

func normaliseProfile(profile CustomerProfile) CustomerProfile {
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.Email = strings.TrimSpace(profile.Email)
	profile.Phone = strings.TrimSpace(profile.Phone)
	profile.Address = strings.TrimSpace(profile.Address)
	profile.City = strings.TrimSpace(profile.City)
	profile.PostalCode = strings.TrimSpace(profile.PostalCode)
	if profile.PostalCode == "" {
		profile.PostalCode = defaultPostalCode
	}
	return profile
}
