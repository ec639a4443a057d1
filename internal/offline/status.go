package offline

import (
	"context"

	"zakatku-backend/internal/domain"
)

// Probe answers whether the record store is currently reachable. The agent
// backs it with a deadline-bounded database ping.
type Probe interface {
	Online(ctx context.Context) bool
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(ctx context.Context) bool

func (f ProbeFunc) Online(ctx context.Context) bool { return f(ctx) }

// Status projects connectivity plus queue depth into the badge shown to the
// collector: offline, online with items awaiting sync, or fully synced.
func Status(online bool, pending int) domain.ConnStatus {
	switch {
	case !online:
		return domain.ConnStatus{State: domain.ConnOffline, Pending: pending}
	case pending > 0:
		return domain.ConnStatus{State: domain.ConnPendingSync, Pending: pending}
	default:
		return domain.ConnStatus{State: domain.ConnSynced}
	}
}
