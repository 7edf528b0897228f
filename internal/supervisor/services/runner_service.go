// LANCache Manager - Dashboard Session Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lancache-manager

package services

import (
	"context"
	"errors"
)

// Runner is satisfied by liveness.Poller, liveness.Heartbeat and push.Client.
type Runner interface {
	RunWithContext(ctx context.Context) error
}

// RunnerService supervises a Runner.
type RunnerService struct {
	runner Runner
	name   string
}

// NewRunnerService wraps runner under the given service name.
func NewRunnerService(name string, runner Runner) *RunnerService {
	return &RunnerService{runner: runner, name: name}
}

// Serve implements suture.Service. A Runner returning nil before ctx ends is
// reported as an error so suture restarts it.
func (s *RunnerService) Serve(ctx context.Context) error {
	err := s.runner.RunWithContext(ctx)
	if err == nil && ctx.Err() == nil {
		return errors.New(s.name + " exited unexpectedly")
	}
	return err
}

// String implements fmt.Stringer for suture logs.
func (s *RunnerService) String() string {
	return s.name
}
