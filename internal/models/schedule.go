package models

// Schedule is a stored on/off timer for a node. The local row is
// authoritative; pushing it to the owning server is best-effort.
type Schedule struct {
	ID      int64    `json:"id"`
	NodeID  int64    `json:"node_id"`
	Action  string   `json:"action"` // on | off
	Time    string   `json:"time"`   // HH:MM, 24h
	Days    []string `json:"days"`   // e.g. ["Mon","Tue"]
	Enabled bool     `json:"enabled"`
}
