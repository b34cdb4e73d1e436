// Package metrics defines and registers all custom Prometheus metrics for
// the identity API. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identity"

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "created", "duplicate", "role_missing", "invalid" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginAttemptsTotal counts login attempts. Failed credential checks are a
// single bucket on purpose; the split must never leak, not even here.
// Label:
//   - result: "success", "invalid" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts successfully issued bearer tokens.
var TokensIssuedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued at login.",
	},
)

// AvatarUploadsTotal counts avatar upload attempts.
// Label:
//   - result: "stored", "rejected", "user_not_found" or "error"
var AvatarUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "avatar_uploads_total",
		Help:      "Total number of avatar upload attempts, by result.",
	},
	[]string{"result"},
)

// AvatarUploadBytes observes the size of accepted avatar uploads.
var AvatarUploadBytes = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "avatar_upload_bytes",
		Help:      "Size distribution of accepted avatar uploads.",
		Buckets:   prometheus.ExponentialBuckets(16*1024, 2, 9), // 16 KiB .. 4 MiB
	},
)
