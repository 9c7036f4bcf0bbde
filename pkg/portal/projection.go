package portal

import (
	"sort"
	"sync"

	"github.com/mmynk/casesettle/pkg/api"
)

// Projection is the client's local view of the last-fetched settlements and
// escalations. It is only changed through Apply calls, which callers make
// after a remote write has succeeded.
type Projection struct {
	mu          sync.RWMutex
	settlements map[string]api.Settlement
	escalations map[string]api.Escalation
}

func NewProjection() *Projection {
	return &Projection{
		settlements: make(map[string]api.Settlement),
		escalations: make(map[string]api.Escalation),
	}
}

// Apply records s. A copy older than the one already held is ignored, so a
// slow response cannot roll the view back.
func (p *Projection) Apply(s *api.Settlement) {
	if s == nil || s.ID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.settlements[s.ID]; ok && cur.UpdatedAt.After(s.UpdatedAt) {
		return
	}
	p.settlements[s.ID] = *s
}

// ApplyEscalation records e under the same staleness rule as Apply.
func (p *Projection) ApplyEscalation(e *api.Escalation) {
	if e == nil || e.ID == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.escalations[e.ID]; ok && cur.UpdatedAt.After(e.UpdatedAt) {
		return
	}
	p.escalations[e.ID] = *e
}

// Replace swaps the settlement view for a freshly listed collection.
func (p *Projection) Replace(list []*api.Settlement) {
	next := make(map[string]api.Settlement, len(list))
	for _, s := range list {
		if s != nil {
			next[s.ID] = *s
		}
	}
	p.mu.Lock()
	p.settlements = next
	p.mu.Unlock()
}

func (p *Projection) Settlement(id string) (api.Settlement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.settlements[id]
	return s, ok
}

// Settlements returns the view ordered by request time, oldest first.
func (p *Projection) Settlements() []api.Settlement {
	p.mu.RLock()
	out := make([]api.Settlement, 0, len(p.settlements))
	for _, s := range p.settlements {
		out = append(out, s)
	}
	p.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out
}

// ActiveEscalation returns the open or in-progress item held for a settlement.
func (p *Projection) ActiveEscalation(settlementID string) (api.Escalation, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, e := range p.escalations {
		if e.SettlementID == settlementID && (e.Status == "open" || e.Status == "in_progress") {
			return e, true
		}
	}
	return api.Escalation{}, false
}
