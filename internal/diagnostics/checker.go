// Copyright (C) 2025 safecloset
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package diagnostics runs named health checks against a closet file,
// the way `safecloset doctor` reports on a file without opening any
// drawer in it.
package diagnostics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Canop/safecloset/internal/logger"
)

// Status represents the health status of a check
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of one diagnostic check
type CheckResult struct {
	Name      string                 `json:"name"`
	Status    Status                 `json:"status"`
	Message   string                 `json:"message,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Duration  time.Duration          `json:"duration"`
	Details   map[string]interface{} `json:"details,omitempty"`
}

// Check represents a single diagnostic check function
type Check func(ctx context.Context) error

// Checker manages multiple diagnostic checks
type Checker struct {
	checks   map[string]Check
	timeout  time.Duration
	mu       sync.RWMutex
	logger   logger.Logger
	cacheTTL time.Duration
	cache    map[string]*cachedResult
}

// cachedResult stores a cached check result
type cachedResult struct {
	result    *CheckResult
	expiresAt time.Time
}

// NewChecker creates a new diagnostics checker
func NewChecker(timeout time.Duration) *Checker {
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Checker{
		checks:   make(map[string]Check),
		timeout:  timeout,
		logger:   logger.GetDefaultLogger(),
		cacheTTL: 10 * time.Second,
		cache:    make(map[string]*cachedResult),
	}
}

// SetLogger sets the logger for the checker
func (c *Checker) SetLogger(l logger.Logger) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logger = l
}

// SetCacheTTL sets the cache TTL for check results
func (c *Checker) SetCacheTTL(ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cacheTTL = ttl
}

// Register registers a new check under name
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.checks[name] = check
	c.logger.Debug("diagnostic check registered", logger.String("name", name))
}

// Unregister removes a check
func (c *Checker) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.checks, name)
	delete(c.cache, name)
}

// Run performs a single named check, using the cache if still fresh.
func (c *Checker) Run(ctx context.Context, name string) (*CheckResult, error) {
	c.mu.RLock()
	check, exists := c.checks[name]
	c.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("diagnostic check not found: %s", name)
	}

	if cached := c.getCachedResult(name); cached != nil {
		return cached, nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := check(checkCtx)
	duration := time.Since(start)

	result := &CheckResult{
		Name:      name,
		Timestamp: time.Now(),
		Duration:  duration,
	}

	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
		c.logger.Warn("diagnostic check failed",
			logger.String("name", name),
			logger.Error(err),
			logger.Duration("duration", duration),
		)
	} else {
		result.Status = StatusHealthy
		c.logger.Debug("diagnostic check passed",
			logger.String("name", name),
			logger.Duration("duration", duration),
		)
	}

	c.cacheResult(name, result)

	return result, nil
}

// RunAll performs every registered check concurrently.
func (c *Checker) RunAll(ctx context.Context) map[string]*CheckResult {
	c.mu.RLock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	c.mu.RUnlock()

	results := make(map[string]*CheckResult)
	var wg sync.WaitGroup
	var resultsMu sync.Mutex

	for _, name := range names {
		wg.Add(1)
		go func(checkName string) {
			defer wg.Done()

			result, err := c.Run(ctx, checkName)
			if err != nil {
				result = &CheckResult{
					Name:      checkName,
					Status:    StatusUnhealthy,
					Message:   fmt.Sprintf("check failed: %v", err),
					Timestamp: time.Now(),
				}
			}

			resultsMu.Lock()
			results[checkName] = result
			resultsMu.Unlock()
		}(name)
	}

	wg.Wait()
	return results
}

// OverallStatus aggregates every check result into a single status.
func (c *Checker) OverallStatus(ctx context.Context) Status {
	results := c.RunAll(ctx)

	if len(results) == 0 {
		return StatusHealthy
	}

	hasUnhealthy := false
	hasDegraded := false

	for _, result := range results {
		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		return StatusUnhealthy
	}
	if hasDegraded {
		return StatusDegraded
	}

	return StatusHealthy
}

func (c *Checker) getCachedResult(name string) *CheckResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.cache[name]
	if !exists || time.Now().After(cached.expiresAt) {
		return nil
	}

	return cached.result
}

func (c *Checker) cacheResult(name string, result *CheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[name] = &cachedResult{
		result:    result,
		expiresAt: time.Now().Add(c.cacheTTL),
	}
}

// ClearCache clears all cached results
func (c *Checker) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache = make(map[string]*cachedResult)
}

// Report is the aggregate result returned by `safecloset doctor`.
type Report struct {
	Status    Status                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Checks    map[string]*CheckResult `json:"checks"`
}

// Diagnose runs every registered check and returns the aggregate report.
func (c *Checker) Diagnose(ctx context.Context) *Report {
	checks := c.RunAll(ctx)
	status := c.OverallStatus(ctx)

	return &Report{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	}
}
