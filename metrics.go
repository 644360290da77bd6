package authgate

import "sync/atomic"

// MetricID defines a public type used by authgate APIs.
//
// MetricID instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricID uint16

const (
	// MetricLoginSuccess is an exported constant or variable used by the authentication client.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure is an exported constant or variable used by the authentication client.
	MetricLoginFailure
	// MetricLoginSuperseded is an exported constant or variable used by the authentication client.
	MetricLoginSuperseded
	// MetricLogout is an exported constant or variable used by the authentication client.
	MetricLogout
	// MetricForcedLogout is an exported constant or variable used by the authentication client.
	MetricForcedLogout
	// MetricProfileSuccess is an exported constant or variable used by the authentication client.
	MetricProfileSuccess
	// MetricProfileFailure is an exported constant or variable used by the authentication client.
	MetricProfileFailure
	// MetricMFAToggled is an exported constant or variable used by the authentication client.
	MetricMFAToggled
	// MetricPhoneUpdated is an exported constant or variable used by the authentication client.
	MetricPhoneUpdated
	// MetricResetRequested is an exported constant or variable used by the authentication client.
	MetricResetRequested
	// MetricResetConfirmSuccess is an exported constant or variable used by the authentication client.
	MetricResetConfirmSuccess
	// MetricResetConfirmFailure is an exported constant or variable used by the authentication client.
	MetricResetConfirmFailure
	// MetricRegisterSuccess is an exported constant or variable used by the authentication client.
	MetricRegisterSuccess
	// MetricRegisterFailure is an exported constant or variable used by the authentication client.
	MetricRegisterFailure
	// MetricNetworkFailure is an exported constant or variable used by the authentication client.
	MetricNetworkFailure

	metricIDCount
)

var metricNames = [metricIDCount]string{
	MetricLoginSuccess:        "login_success",
	MetricLoginFailure:        "login_failure",
	MetricLoginSuperseded:     "login_superseded",
	MetricLogout:              "logout",
	MetricForcedLogout:        "forced_logout",
	MetricProfileSuccess:      "profile_success",
	MetricProfileFailure:      "profile_failure",
	MetricMFAToggled:          "mfa_toggled",
	MetricPhoneUpdated:        "phone_updated",
	MetricResetRequested:      "reset_requested",
	MetricResetConfirmSuccess: "reset_confirm_success",
	MetricResetConfirmFailure: "reset_confirm_failure",
	MetricRegisterSuccess:     "register_success",
	MetricRegisterFailure:     "register_failure",
	MetricNetworkFailure:      "network_failure",
}

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (id MetricID) String() string {
	if id >= metricIDCount {
		return "unknown"
	}
	return metricNames[id]
}

// Metrics holds in-process atomic counters for client lifecycle operations.
// When disabled, all operations are no-ops.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

// NewMetrics describes the newmetrics operation and its observable behavior.
//
// NewMetrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc describes the inc operation and its observable behavior.
//
// Inc does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time deep copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot describes the snapshot operation and its observable behavior.
//
// Snapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: map[MetricID]uint64{}}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if v := m.counters[id].Load(); v != 0 {
			snap.Counters[id] = v
		}
	}
	return snap
}
