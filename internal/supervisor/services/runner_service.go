// Billboard - Digital Signage Slideshow Server
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/billboard

package services

import "context"

// Runner is a component that already blocks in Serve until canceled.
type Runner interface {
	Serve(ctx context.Context) error
}

// RunnerService names a Runner for supervisor logs.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps runner under name.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service.
func (r *RunnerService) Serve(ctx context.Context) error {
	return r.runner.Serve(ctx)
}

func (r *RunnerService) String() string {
	return r.name
}
