// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/iliyamo/post-office-sim/internal/model"

// DayClosedEvent is published at every day boundary after the director has
// frozen the daily counters.  It carries the full report so downstream
// consumers can log or aggregate without querying the archive.
type DayClosedEvent struct {
	Run      string          `json:"run"`
	Day      int             `json:"day"`
	Report   model.DayReport `json:"report"`
	ClosedAt string          `json:"closed_at"`
}

// SimulationEndedEvent is published once when the run finishes, whether it
// completed every day or was aborted by an office explosion.
type SimulationEndedEvent struct {
	Run      string `json:"run"`
	Days     int    `json:"days"`
	Exploded bool   `json:"exploded"`
	EndedAt  string `json:"ended_at"`
}
