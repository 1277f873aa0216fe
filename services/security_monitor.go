package services

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

const (
	failedLoginWindow    = 10 * time.Minute
	failedLoginThreshold = 5
	alertCooldown        = time.Hour
	maxAlerts            = 100
)

var securityAlerts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "legalaid_security_alerts_total",
	Help: "Total number of repeated failed token requests flagged per client IP",
})

// SecurityEventMonitor counts failed token requests per IP and raises alerts
type SecurityEventMonitor struct {
	mu           sync.Mutex
	failedLogins map[string][]time.Time
	alertedIPs   map[string]time.Time
	alerts       []SecurityAlert
	stop         chan struct{}
}

// SecurityAlert is a raised alert, newest first in GetRecentAlerts
type SecurityAlert struct {
	Timestamp time.Time
	IP        string
	Reason    string
}

// Monitor is the process-wide monitor; nil disables tracking
var Monitor *SecurityEventMonitor

// NewSecurityEventMonitor creates a monitor without a cleanup loop
func NewSecurityEventMonitor() *SecurityEventMonitor {
	return &SecurityEventMonitor{
		failedLogins: make(map[string][]time.Time),
		alertedIPs:   make(map[string]time.Time),
		stop:         make(chan struct{}),
	}
}

// InitSecurityMonitor installs the global monitor and starts its cleanup loop
func InitSecurityMonitor() {
	Monitor = NewSecurityEventMonitor()
	go Monitor.cleanupLoop()
}

// TrackFailedLogin records a failed attempt and alerts once the threshold is reached
func (m *SecurityEventMonitor) TrackFailedLogin(ip string, now time.Time) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	windowStart := now.Add(-failedLoginWindow)
	recent := m.failedLogins[ip][:0]
	for _, t := range m.failedLogins[ip] {
		if t.After(windowStart) {
			recent = append(recent, t)
		}
	}
	recent = append(recent, now)
	m.failedLogins[ip] = recent

	if len(recent) >= failedLoginThreshold {
		m.alertLocked(ip, "Multiple failed token requests", now)
	}
}

func (m *SecurityEventMonitor) alertLocked(ip, reason string, now time.Time) {
	if last, ok := m.alertedIPs[ip]; ok && now.Sub(last) < alertCooldown {
		return
	}
	m.alertedIPs[ip] = now

	m.alerts = append([]SecurityAlert{{Timestamp: now, IP: ip, Reason: reason}}, m.alerts...)
	if len(m.alerts) > maxAlerts {
		m.alerts = m.alerts[:maxAlerts]
	}

	securityAlerts.Inc()
	log.Error().Str("component", "security").Str("ip", ip).Msg(reason)
}

// GetRecentAlerts returns a copy of the alert history
func (m *SecurityEventMonitor) GetRecentAlerts() []SecurityAlert {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	alerts := make([]SecurityAlert, len(m.alerts))
	copy(alerts, m.alerts)
	return alerts
}

// Stop ends the cleanup loop
func (m *SecurityEventMonitor) Stop() {
	if m == nil {
		return
	}
	close(m.stop)
}

func (m *SecurityEventMonitor) cleanupLoop() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			m.prune(now)
		case <-m.stop:
			return
		}
	}
}

func (m *SecurityEventMonitor) prune(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ip, attempts := range m.failedLogins {
		if len(attempts) == 0 || now.Sub(attempts[len(attempts)-1]) > failedLoginWindow {
			delete(m.failedLogins, ip)
		}
	}
	for ip, last := range m.alertedIPs {
		if now.Sub(last) > alertCooldown {
			delete(m.alertedIPs, ip)
		}
	}
}
