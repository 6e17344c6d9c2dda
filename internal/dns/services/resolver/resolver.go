// Package resolver answers decoded queries from the authoritative zone store.
package resolver

import (
	"context"
	"errors"
	"net"

	"github.com/haukened/ktdns/internal/dns/common/log"
	"github.com/haukened/ktdns/internal/dns/domain"
)

type Resolver struct {
	logger log.Logger
	policy domain.RCodePolicy
	zones  ZoneStore
}

type ResolverOptions struct {
	Logger log.Logger
	// Policy maps outcomes to RCODEs. Nil means domain.DefaultRCodePolicy.
	Policy domain.RCodePolicy
	Zones  ZoneStore
}

func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	policy := opts.Policy
	if policy == nil {
		policy = domain.DefaultRCodePolicy()
	}
	return &Resolver{
		logger: logger,
		policy: policy,
		zones:  opts.Zones,
	}
}

// Resolve looks up the records answering q. It never fails: a missing zone is
// OutcomeNameError, an unsupported type/class or an empty record set is
// OutcomeNoData. Resolve does not log.
func (r *Resolver) Resolve(q domain.Query) ([]domain.Record, domain.Outcome) {
	zone, err := r.zones.Lookup(q.Name())
	if err != nil {
		return nil, domain.OutcomeNameError
	}
	if q.CheckSupported() != nil {
		return nil, domain.OutcomeNoData
	}
	records := zone.Records(q.Type)
	if len(records) == 0 {
		return nil, domain.OutcomeNoData
	}
	return records, domain.OutcomeSuccess
}

// HandleQuery resolves q and builds the authoritative response, with the
// RCODE chosen by the configured policy.
func (r *Resolver) HandleQuery(ctx context.Context, q domain.Query, clientAddr net.Addr) (domain.Response, error) {
	if err := ctx.Err(); err != nil {
		return domain.Response{}, err
	}

	records, outcome := r.Resolve(q)

	fields := map[string]any{
		"query_id": q.ID,
		"name":     q.Name(),
		"type":     q.Type.String(),
		"class":    q.Class.String(),
		"outcome":  outcome.String(),
		"answers":  len(records),
	}
	if clientAddr != nil {
		fields["client"] = clientAddr.String()
	}
	if err := q.CheckSupported(); errors.Is(err, domain.ErrUnsupportedQuery) {
		fields["reason"] = err.Error()
	}
	r.logger.Debug(fields, "Resolved query")

	return domain.NewResponse(q, records, r.policy.RCode(outcome))
}

var _ DNSResponder = (*Resolver)(nil)
