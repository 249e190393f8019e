package entity

import "time"

// ReportEvent is published after a transparency report has been created, so
// downstream announcers (chat bots, social updaters) can pick it up.
type ReportEvent struct {
	Home      string            `json:"home"`
	Policy    string            `json:"policy"`
	Start     int64             `json:"start"`
	End       int64             `json:"end"`
	Groups    []AllocationGroup `json:"groups"`
	Report    string            `json:"report"`
	CreatedAt time.Time         `json:"created_at"`
}
