package client

import "time"

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the service clock.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithBootstrap enables seeding an empty local slot from the mirror
// during Init.
func WithBootstrap(enabled bool) Option {
	return func(s *Service) { s.bootstrap = enabled }
}
