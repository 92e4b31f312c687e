// Package quota tracks daily API quota usage for the search provider.
package quota

import (
	"sync"
	"time"

	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
	"go.uber.org/zap"
)

// Info is a snapshot of the counter.
type Info struct {
	QuotaUsed       int
	QuotaLimit      int
	QuotaRemaining  int
	OperationsCount int
	Day             time.Time
}

// Manager is an instance-scoped daily quota counter. The counter rolls over
// when the UTC calendar day changes; there is no cross-process or
// cross-instance synchronization, so true quota enforcement across a
// multi-instance deployment needs an external coordinator.
type Manager struct {
	mu               sync.Mutex
	dailyLimit       int
	thresholdPercent int // stop issuing calls at this % of the limit
	used             int
	operations       int
	day              time.Time
	now              func() time.Time
}

// NewManager creates a quota manager. A non-positive dailyLimit falls back to
// the provider default of 10000 units; thresholdPercent defaults to 90.
func NewManager(dailyLimit, thresholdPercent int) *Manager {
	if dailyLimit <= 0 {
		dailyLimit = 10000
	}
	if thresholdPercent <= 0 || thresholdPercent > 100 {
		thresholdPercent = 90
	}
	return &Manager{
		dailyLimit:       dailyLimit,
		thresholdPercent: thresholdPercent,
		now:              time.Now,
	}
}

// rollover resets the counter when the UTC date has changed since the last
// recorded usage. Callers must hold mu.
func (m *Manager) rollover() {
	today := m.now().UTC().Truncate(24 * time.Hour)
	if !m.day.Equal(today) {
		if m.used > 0 {
			logger.Log.Info("daily quota counter reset",
				zap.Time("previous_day", m.day),
				zap.Int("previous_used", m.used),
			)
		}
		m.day = today
		m.used = 0
		m.operations = 0
	}
}

func (m *Manager) threshold() int {
	return (m.dailyLimit * m.thresholdPercent) / 100
}

// CheckAvailable reports whether an operation estimated at cost units may be
// issued. The check is fail-closed: when used + cost would cross the
// threshold the operation must not touch the network.
func (m *Manager) CheckAvailable(cost int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()

	if m.used+cost > m.threshold() {
		logger.Log.Warn("quota pre-check rejected operation",
			zap.Int("used", m.used),
			zap.Int("cost", cost),
			zap.Int("threshold", m.threshold()),
			zap.Int("limit", m.dailyLimit),
		)
		return false
	}
	return true
}

// RecordUsage adds cost units to today's counter.
func (m *Manager) RecordUsage(cost int, operationType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()

	m.used += cost
	m.operations++

	logger.Log.Debug("quota usage recorded",
		zap.String("operation", operationType),
		zap.Int("cost", cost),
		zap.Int("used", m.used),
		zap.Int("limit", m.dailyLimit),
	)
}

// GetInfo returns a snapshot of the counter.
func (m *Manager) GetInfo() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()

	remaining := m.threshold() - m.used
	if remaining < 0 {
		remaining = 0
	}
	return Info{
		QuotaUsed:       m.used,
		QuotaLimit:      m.dailyLimit,
		QuotaRemaining:  remaining,
		OperationsCount: m.operations,
		Day:             m.day,
	}
}

// IsExhausted reports whether the threshold has been reached.
func (m *Manager) IsExhausted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rollover()
	return m.used >= m.threshold()
}
