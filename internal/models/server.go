package models

import "time"

// Server statuses.
const (
	ServerOnline  = "online"
	ServerOffline = "offline"
)

// Server is one physical gateway on the factory network. There is at most
// one row per IP address; the sync engine upserts by address.
type Server struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IPAddress string    `json:"ip_address"`
	Status    string    `json:"status"` // online | offline
	LastSeen  time.Time `json:"last_seen"`
}
