// Package health reports on the infrastructure the pipeline runs on.
package health

import "time"

// Status is a point-in-time view of the hosting environment.
type Status struct {
	Healthy   bool               `json:"healthy"`
	Nodes     int                `json:"nodes"`
	Pods      int                `json:"pods"`
	Usage     map[string]float64 `json:"usage"`
	CheckedAt time.Time          `json:"checked_at"`
}

// Poller fetches the current infrastructure status.
type Poller interface {
	Poll() (Status, error)
}

// SimulatedPoller reports a fixed healthy environment. Stands in for a
// cluster API client when the pipeline runs standalone.
type SimulatedPoller struct{}

func (SimulatedPoller) Poll() (Status, error) {
	return Status{
		Healthy: true,
		Nodes:   1,
		Pods:    3,
		Usage: map[string]float64{
			"cpu":    12.5,
			"memory": 38.2,
			"disk":   21.0,
		},
		CheckedAt: time.Now(),
	}, nil
}
