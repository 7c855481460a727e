package store

import (
	"officesim-backend/internal/model"
	"officesim-backend/internal/office"
)

// StateAvailable is the state of a resource nobody holds. Available
// resources have no open occupancy row.
const StateAvailable = "AVAILABLE"

// Observation is the state of one desk or meeting space when it was persisted.
type Observation struct {
	ResourceID string
	Kind       string
	State      string
	OccupantID string
	EventID    string
}

// Available reports whether the resource is free.
func (o Observation) Available() bool {
	return o.State == StateAvailable
}

// Clock places a persistence cycle in simulated time.
type Clock struct {
	Day     int
	SimTime float64
}

// ObservationsFromSnapshot flattens the desks and spaces of a snapshot.
func ObservationsFromSnapshot(s office.Snapshot) []Observation {
	obs := make([]Observation, 0, len(s.Desks)+len(s.Spaces))
	for _, d := range s.Desks {
		obs = append(obs, Observation{
			ResourceID: d.ID,
			Kind:       model.KindDesk,
			State:      string(d.State),
			OccupantID: d.OccupantID,
		})
	}
	for _, sp := range s.Spaces {
		obs = append(obs, Observation{
			ResourceID: sp.ID,
			Kind:       model.KindSpace,
			State:      string(sp.State),
			EventID:    sp.EventID,
		})
	}
	return obs
}
