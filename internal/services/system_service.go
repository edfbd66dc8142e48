package services

import (
	"context"
	"errors"
	"time"

	"github.com/techstore/api/internal/repositories"
)

// MailerVerifier checks connectivity to the outbound messaging channel.
type MailerVerifier interface {
	Verify(ctx context.Context) error
}

// SystemServiceDeps wires the dependencies required by the system service.
type SystemServiceDeps struct {
	Health repositories.HealthRepository
	Mailer MailerVerifier
	Clock  func() time.Time
}

type systemService struct {
	health repositories.HealthRepository
	mailer MailerVerifier
	clock  func() time.Time
}

// NewSystemService constructs a SystemService validating required dependencies.
func NewSystemService(deps SystemServiceDeps) (SystemService, error) {
	if deps.Health == nil {
		return nil, errors.New("system service: health repository is required")
	}

	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	return &systemService{
		health: deps.Health,
		mailer: deps.Mailer,
		clock: func() time.Time {
			return clock().UTC()
		},
	}, nil
}

// Health reports whether the database and mailer respond. A mailer failure
// degrades readiness information only; it does not gate order processing.
func (s *systemService) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{CheckedAt: s.clock()}
	if s.health != nil {
		status.Database = s.health.Ping(ctx) == nil
	}
	if s.mailer != nil {
		status.Mailer = s.mailer.Verify(ctx) == nil
	}
	return status
}
