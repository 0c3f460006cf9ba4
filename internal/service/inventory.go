package service

import (
	"context"
	"time"

	"auradash/internal/models"
	"auradash/internal/repository"
)

// InventoryService is the read-only surface the UI polls. The store is the
// single source of truth; this service never talks to hardware.
type InventoryService struct {
	servers    repository.ServerRepo
	nodes      repository.NodeRepo
	datapoints repository.DataPointRepo
}

func NewInventoryService(repos *repository.Repository) *InventoryService {
	return &InventoryService{
		servers:    repos.Servers,
		nodes:      repos.Nodes,
		datapoints: repos.DataPoints,
	}
}

func (s *InventoryService) Servers(ctx context.Context) ([]models.Server, error) {
	return s.servers.List(ctx)
}

func (s *InventoryService) Nodes(ctx context.Context) ([]models.Node, error) {
	return s.nodes.List(ctx)
}

// NodeHistory returns a node's samples in [from, to]; zero times widen the
// range to everything retained.
func (s *InventoryService) NodeHistory(ctx context.Context, nodeID int64, from, to time.Time) ([]models.DataPoint, error) {
	if from.IsZero() {
		from = time.Unix(0, 0)
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	return s.datapoints.ListByNode(ctx, nodeID, from, to)
}
