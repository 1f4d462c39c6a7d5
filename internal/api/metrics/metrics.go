// Package metrics defines and registers the custom Prometheus metrics for the
// conduit API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Collectors are registered with the default registry at package init through
// promauto. Register adds them to any other registry that backs /metrics; HTTP
// request metrics come from echoprometheus in the router.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "conduit"

// Resolution outcomes recorded by the request authenticator.
const (
	OutcomeNoHeader        = "no_header"
	OutcomeMalformedHeader = "malformed_header"
	OutcomeInvalidToken    = "invalid_token"
	OutcomeUnknownUser     = "unknown_user"
	OutcomeLookupError     = "lookup_error"
	OutcomeAuthenticated   = "authenticated"
)

// ── Auth pipeline ─────────────────────────────────────────────────────────────

// AuthResolutionsTotal counts how each request's principal was resolved.
// Label:
//   - outcome: one of the Outcome* constants
var AuthResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_resolutions_total",
		Help:      "Total number of requests by principal resolution outcome.",
	},
	[]string{"outcome"},
)

// AuthGuardRejectionsTotal counts requests turned away by the access guard.
// Label:
//   - route: the matched route path (e.g. "/users/user")
var AuthGuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_guard_rejections_total",
		Help:      "Total number of requests rejected by the access guard.",
	},
	[]string{"route"},
)

// CredentialOperationsTotal counts register/login/update attempts.
// Labels:
//   - operation: "register", "login" or "update"
//   - result: "success" or a short failure reason ("conflict", "invalid_credentials", ...)
var CredentialOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_operations_total",
		Help:      "Total number of credential lifecycle operations, by outcome.",
	},
	[]string{"operation", "result"},
)

// ── Tags ──────────────────────────────────────────────────────────────────────

// TagCacheTotal counts tag cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var TagCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tag_cache_total",
		Help:      "Total number of tag list cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// Register adds every custom collector to reg. Collectors already present in
// reg are skipped, so the default registry and repeated calls are safe.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		AuthResolutionsTotal,
		AuthGuardRejectionsTotal,
		CredentialOperationsTotal,
		TagCacheTotal,
	} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
