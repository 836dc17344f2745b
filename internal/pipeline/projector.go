package pipeline

import (
	"sort"

	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/types"
)

// StatusCount is the number of applications carrying one status value.
type StatusCount struct {
	Status types.Status `json:"status"`
	Count  int          `json:"count"`
}

// StatusGroup holds the applications carrying one status value.
type StatusGroup struct {
	Status       types.Status           `json:"status"`
	Applications []db.ApplicationDetail `json:"applications"`
}

// Projection is the pipeline view: counts, groups and the flat list.
// Stats and Groups share the same status order.
type Projection struct {
	Stats        []StatusCount          `json:"stats"`
	Applications []db.ApplicationDetail `json:"applications"`
	Groups       []StatusGroup          `json:"groups"`
}

// Total returns the number of projected applications.
func (p *Projection) Total() int {
	return len(p.Applications)
}

// Count returns the number of applications with status s.
func (p *Projection) Count(s types.Status) int {
	for _, st := range p.Stats {
		if st.Status == s {
			return st.Count
		}
	}
	return 0
}

// Project groups and counts apps by status. Only status values that occur
// are reported. Known stages come first in progression order, then legacy
// values in lexical order. Every list is ordered by appliedAt descending,
// ties by id ascending. apps is not modified.
func Project(apps []db.ApplicationDetail) Projection {
	ordered := make([]db.ApplicationDetail, len(apps))
	copy(ordered, apps)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if !a.AppliedAt.Equal(b.AppliedAt) {
			return a.AppliedAt.After(b.AppliedAt)
		}
		return a.ID < b.ID
	})

	byStatus := map[types.Status][]db.ApplicationDetail{}
	for _, app := range ordered {
		byStatus[app.Status] = append(byStatus[app.Status], app)
	}

	statuses := make([]types.Status, 0, len(byStatus))
	for s := range byStatus {
		statuses = append(statuses, s)
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statusLess(statuses[i], statuses[j])
	})

	p := Projection{
		Stats:        make([]StatusCount, 0, len(statuses)),
		Applications: ordered,
		Groups:       make([]StatusGroup, 0, len(statuses)),
	}
	for _, s := range statuses {
		group := byStatus[s]
		p.Stats = append(p.Stats, StatusCount{Status: s, Count: len(group)})
		p.Groups = append(p.Groups, StatusGroup{Status: s, Applications: group})
	}
	return p
}

// statusLess orders known stages by progression and puts legacy values last.
func statusLess(a, b types.Status) bool {
	sa, sb := a.Stage(), b.Stage()
	switch {
	case sa == types.StageLegacy && sb == types.StageLegacy:
		return a < b
	case sa == types.StageLegacy:
		return false
	case sb == types.StageLegacy:
		return true
	default:
		return sa < sb
	}
}
