package di

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/techstore/api/internal/platform/config"
	"github.com/techstore/api/internal/repositories"
	"github.com/techstore/api/internal/services"
)

// Services bundles the service-layer contracts that handlers rely upon.
// Concrete implementations are assembled in NewContainer.
type Services struct {
	Catalog   services.CatalogService
	Customers services.CustomerService
	Inventory services.InventoryService
	Orders    services.OrderService
	System    services.SystemService
	Notifier  services.NotificationService
}

// ContainerDeps carries the externally constructed collaborators the
// container wires together.
type ContainerDeps struct {
	Config       config.Config
	Repositories repositories.Registry
	Notifier     services.NotificationService
	Mailer       services.MailerVerifier
	Logger       func(ctx context.Context, event string, fields map[string]any)
	Clock        func() time.Time
}

// Container wires repositories and services for runtime use.
type Container struct {
	Config       config.Config
	Repositories repositories.Registry
	Services     Services
}

// NewContainer constructs the runtime dependencies. Production wiring
// provides the Postgres registry and SMTP dispatcher; tests can supply stubs.
func NewContainer(deps ContainerDeps) (*Container, error) {
	if deps.Repositories == nil {
		return nil, errors.New("repositories registry is required")
	}

	svc, err := buildServices(deps)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:       deps.Config,
		Repositories: deps.Repositories,
		Services:     svc,
	}, nil
}

// Close releases repository clients and pooled connections.
func (c *Container) Close(ctx context.Context) error {
	if c == nil || c.Repositories == nil {
		return nil
	}
	return c.Repositories.Close(ctx)
}

func buildServices(deps ContainerDeps) (Services, error) {
	reg := deps.Repositories

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	svc := Services{Notifier: deps.Notifier}

	customerSvc, err := services.NewCustomerService(services.CustomerServiceDeps{
		Customers: reg.Customers(),
		Clock:     clock,
		Logger:    deps.Logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build customer service: %w", err)
	}
	svc.Customers = customerSvc

	inventorySvc, err := services.NewInventoryService(services.InventoryServiceDeps{
		Products: reg.Products(),
	})
	if err != nil {
		return Services{}, fmt.Errorf("build inventory service: %w", err)
	}
	svc.Inventory = inventorySvc

	catalogSvc, err := services.NewCatalogService(services.CatalogServiceDeps{
		Products: reg.Products(),
	})
	if err != nil {
		return Services{}, fmt.Errorf("build catalog service: %w", err)
	}
	svc.Catalog = catalogSvc

	orderNumbers := services.NewOrderNumberGenerator(clock, nil)
	orderSvc, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:      reg.Orders(),
		Customers:   customerSvc,
		Inventory:   inventorySvc,
		Notifier:    deps.Notifier,
		OrderNumber: orderNumbers.Generate,
		Clock:       clock,
		Logger:      deps.Logger,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build order service: %w", err)
	}
	svc.Orders = orderSvc

	systemSvc, err := services.NewSystemService(services.SystemServiceDeps{
		Health: reg.Health(),
		Mailer: deps.Mailer,
		Clock:  clock,
	})
	if err != nil {
		return Services{}, fmt.Errorf("build system service: %w", err)
	}
	svc.System = systemSvc

	return svc, nil
}
