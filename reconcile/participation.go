package reconcile

import (
	"time"

	"github.com/Aidana07/volunteer-hub/models"
)

// Source identifies which collection a participation record came from.
type Source string

const (
	SourceCaptain    Source = "captain"
	SourceTeamMember Source = "team_member"
	SourceDirect     Source = "direct_registration"
)

// DirectTeamName is the synthetic team attached to direct registrations so
// that all participation sources render uniformly.
const DirectTeamName = "Direct Registration"

// Participation is the reconciled view of one user's relationship to one
// event. It is never persisted; it is recomputed from the source
// collections on every refresh.
type Participation struct {
	Source   Source        `json:"source"`
	SourceID int           `json:"source_id"`
	Status   string        `json:"status"`
	CanLeave bool          `json:"can_leave"`
	Event    *models.Event `json:"event"`
	Team     *models.Team  `json:"team,omitempty"`
}

// rank orders sources for duplicate collapsing: captain beats real-team
// member beats direct registration. Membership on the placeholder
// "Direct Registration" pseudo-team ranks as a direct registration.
func (p Participation) rank() int {
	if p.Team != nil && p.Team.Name == DirectTeamName && p.Source != SourceCaptain {
		return 1
	}
	switch p.Source {
	case SourceCaptain:
		return 3
	case SourceTeamMember:
		return 2
	case SourceDirect:
		return 1
	}
	return 0
}

// active mirrors the per-source notion used for can-leave: memberships are
// active in status "active", direct registrations while pending or confirmed.
func (p Participation) active() bool {
	if p.Source == SourceDirect {
		return p.Status == string(models.RegistrationStatusPending) ||
			p.Status == string(models.RegistrationStatusConfirmed)
	}
	return p.Status == string(models.MembershipStatusActive)
}

// Merge collapses the three source collections into at most one
// Participation per event. Records without a resolvable event are dropped.
// Within one event the highest-ranked source wins; on equal rank an active
// record beats a non-active one, otherwise the earlier record stays.
func Merge(
	memberships []models.TeamMembership,
	captained []models.Team,
	registrations []models.Registration,
	now time.Time,
) []Participation {
	working := make([]Participation, 0, len(memberships)+len(captained)+len(registrations))

	for i := range memberships {
		m := &memberships[i]
		if m.Team == nil || m.Team.Event == nil {
			continue
		}
		source := SourceTeamMember
		if m.Role == models.MembershipRoleCaptain {
			source = SourceCaptain
		}
		working = append(working, Participation{
			Source:   source,
			SourceID: m.ID,
			Status:   string(m.Status),
			CanLeave: m.Status == models.MembershipStatusActive && !m.Team.Event.InPast(now),
			Event:    m.Team.Event,
			Team:     m.Team,
		})
	}

	for i := range captained {
		t := &captained[i]
		if t.Event == nil {
			continue
		}
		status := string(models.MembershipStatusActive)
		working = append(working, Participation{
			Source:   SourceCaptain,
			SourceID: t.ID,
			Status:   status,
			CanLeave: !t.Event.InPast(now),
			Event:    t.Event,
			Team:     t,
		})
	}

	for i := range registrations {
		r := &registrations[i]
		if r.Event == nil {
			continue
		}
		open := r.Status == models.RegistrationStatusPending || r.Status == models.RegistrationStatusConfirmed
		working = append(working, Participation{
			Source:   SourceDirect,
			SourceID: r.ID,
			Status:   string(r.Status),
			CanLeave: open && !r.Event.InPast(now),
			Event:    r.Event,
			Team:     &models.Team{Name: DirectTeamName, EventID: r.Event.ID},
		})
	}

	best := make(map[int]Participation, len(working))
	order := make([]int, 0, len(working))
	for _, p := range working {
		eventID := p.Event.ID
		current, seen := best[eventID]
		if !seen {
			best[eventID] = p
			order = append(order, eventID)
			continue
		}
		if supersedes(p, current) {
			best[eventID] = p
		}
	}

	result := make([]Participation, 0, len(order))
	for _, eventID := range order {
		result = append(result, best[eventID])
	}
	return result
}

func supersedes(candidate, current Participation) bool {
	if candidate.rank() != current.rank() {
		return candidate.rank() > current.rank()
	}
	return candidate.active() && !current.active()
}
