package application

import "time"

// SetSleep replaces the resolver's convergence delay for tests.
func (r *RepositoryResolver) SetSleep(fn func(time.Duration)) {
	r.sleep = fn
}

// SetResolverSleep reaches through a LiberationService to silence the
// bootstrap delay in end-to-end tests.
func (s *LiberationService) SetResolverSleep(fn func(time.Duration)) {
	s.resolver.sleep = fn
}
