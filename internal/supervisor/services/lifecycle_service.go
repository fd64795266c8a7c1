// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package services

import (
	"context"
	"fmt"
)

// StartStopManager is a component with explicit Start and Stop calls.
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// LifecycleService holds a StartStopManager running for as long as the
// supervisor keeps the service up.
type LifecycleService struct {
	manager StartStopManager
	name    string
}

// NewLifecycleService wraps manager under name.
func NewLifecycleService(name string, manager StartStopManager) *LifecycleService {
	return &LifecycleService{
		manager: manager,
		name:    name,
	}
}

// Serve implements suture.Service.
func (s *LifecycleService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("%s start failed: %w", s.name, err)
	}

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("%s stop failed: %w", s.name, err)
	}

	return ctx.Err()
}

func (s *LifecycleService) String() string {
	return s.name
}
