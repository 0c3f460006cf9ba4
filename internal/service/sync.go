package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"auradash/internal/hardware"
	"auradash/internal/logger"
	"auradash/internal/models"
	"auradash/internal/notify"
	"auradash/internal/repository"
)

// Engine tunables. These are deliberate constants, not runtime
// configuration.
const (
	// offlineFailureThreshold is the hysteresis: a server keeps its
	// previous status until this many consecutive status fetches fail.
	offlineFailureThreshold = 3

	// samplingInterval appends telemetry samples one pass in N so storage
	// growth stays bounded.
	samplingInterval = 3

	// retentionSweepInterval runs the retention purge one pass in N.
	retentionSweepInterval = 10

	// retentionDays is the horizon beyond which data points are purged.
	retentionDays = 30
)

// Defaults used when a gateway reports nodes without type/category.
const (
	defaultNodeType     = "GENERIC"
	defaultNodeCategory = "Uncategorized"
)

// transitionAlerter is the slice of the alert surface the engine needs.
type transitionAlerter interface {
	Raise(ctx context.Context, c AlertCandidate) (bool, error)
	RaiseTransition(ctx context.Context, c AlertCandidate) error
}

// SyncEngine reconciles remote hardware state into the local store. All
// cross-pass state (failure counters, telemetry watermarks, the pass
// counter) is process-local and mutex-guarded; a restart re-establishes
// ground truth within a few passes.
type SyncEngine struct {
	servers    repository.ServerRepo
	nodes      repository.NodeRepo
	datapoints repository.DataPointRepo
	transport  hardware.Transport
	alerts     transitionAlerter
	notifier   notify.Notifier
	log        *logger.Logger

	seedName string
	seedAddr string

	mu         sync.Mutex
	failures   map[string]int
	watermarks map[string]int64
	hwIDs      map[string]map[string]int64
	passCount  int
}

func NewSyncEngine(repos *repository.Repository, transport hardware.Transport, alerts transitionAlerter, notifier notify.Notifier, log *logger.Logger, cfg Config) *SyncEngine {
	return &SyncEngine{
		servers:    repos.Servers,
		nodes:      repos.Nodes,
		datapoints: repos.DataPoints,
		transport:  transport,
		alerts:     alerts,
		notifier:   notifier,
		log:        log,
		seedName:   cfg.SeedServerName,
		seedAddr:   cfg.SeedServerAddr,
		failures:   make(map[string]int),
		watermarks: make(map[string]int64),
		hwIDs:      make(map[string]map[string]int64),
	}
}

// RunPass performs one complete reconciliation over all known servers.
// Per-server failures are isolated: an error while syncing one server is
// logged and the pass moves on to the next.
func (e *SyncEngine) RunPass(ctx context.Context) error {
	pass := e.nextPass()

	servers, err := e.servers.List(ctx)
	if err != nil {
		return fmt.Errorf("list servers: %w", err)
	}

	if len(servers) == 0 && e.seedAddr != "" {
		id, err := e.servers.Upsert(ctx, e.seedName, e.seedAddr, models.ServerOnline)
		if err != nil {
			return fmt.Errorf("seed server: %w", err)
		}
		servers = []models.Server{{
			ID:        id,
			Name:      e.seedName,
			IPAddress: e.seedAddr,
			Status:    models.ServerOnline,
		}}
	}

	sample := pass%samplingInterval == 0
	for _, srv := range servers {
		if err := e.syncServer(ctx, srv, sample); err != nil {
			e.log.Errorw("server_sync_failed",
				"server", srv.Name, "addr", srv.IPAddress, "err", err)
		}
	}

	if pass%retentionSweepInterval == 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
		if purged, err := e.datapoints.PurgeOlderThan(ctx, cutoff); err != nil {
			e.log.Errorw("retention_sweep_failed", "err", err)
		} else if purged > 0 {
			e.log.Infow("retention_sweep", "purged", purged)
		}
	}

	return nil
}

// syncServer runs steps 1–4 of the reconciliation pipeline for one server,
// in order: status fetch, offline-transition alerting, node reconciliation,
// threshold evaluation. Telemetry import and sampling ride along when the
// server is reachable.
func (e *SyncEngine) syncServer(ctx context.Context, srv models.Server, sample bool) error {
	status, err := e.transport.GetStatus(ctx, srv.IPAddress)
	if err != nil {
		return e.handleStatusFailure(ctx, srv)
	}

	e.resetFailures(srv.IPAddress)

	name := srv.Name
	if status.ServerName != "" {
		name = status.ServerName
	}
	serverID, err := e.servers.Upsert(ctx, name, srv.IPAddress, models.ServerOnline)
	if err != nil {
		return fmt.Errorf("upsert server: %w", err)
	}

	if err := e.reconcileNodes(ctx, serverID, srv, sample); err != nil {
		return err
	}

	e.importTelemetry(ctx, srv.IPAddress, serverID)
	return nil
}

// handleStatusFailure applies the failure-counter hysteresis. Below the
// threshold the server keeps its previous persisted status (optimistic
// hold); at the threshold it flips to offline, and the transition edge —
// and only the edge — raises a critical alert.
func (e *SyncEngine) handleStatusFailure(ctx context.Context, srv models.Server) error {
	failures := e.bumpFailures(srv.IPAddress)

	status := srv.Status // optimistic hold
	if failures >= offlineFailureThreshold {
		status = models.ServerOffline
	}

	e.log.Infow("server_unreachable",
		"server", srv.Name, "addr", srv.IPAddress, "consecutive_failures", failures)

	if status != srv.Status || status == models.ServerOnline {
		if _, err := e.servers.Upsert(ctx, srv.Name, srv.IPAddress, status); err != nil {
			return fmt.Errorf("upsert server status: %w", err)
		}
	}

	if status == models.ServerOffline && srv.Status == models.ServerOnline {
		c := AlertCandidate{
			NodeID:   srv.ID,
			Severity: models.SeverityCritical,
			Message:  fmt.Sprintf("Server %s (%s) is unreachable", srv.Name, srv.IPAddress),
		}
		if err := e.alerts.RaiseTransition(ctx, c); err != nil {
			return fmt.Errorf("offline transition alert: %w", err)
		}
	}

	return nil
}

// reconcileNodes upserts every reported node by (server, name), notifying
// on status changes and evaluating thresholds against the just-upserted
// readings.
func (e *SyncEngine) reconcileNodes(ctx context.Context, serverID int64, srv models.Server, sample bool) error {
	linked, err := e.transport.GetLinkedNodes(ctx, srv.IPAddress)
	if err != nil {
		return fmt.Errorf("fetch linked nodes: %w", err)
	}

	existing, err := e.nodes.ListByServer(ctx, serverID)
	if err != nil {
		return fmt.Errorf("list known nodes: %w", err)
	}
	prevByName := make(map[string]models.Node, len(existing))
	for _, n := range existing {
		prevByName[n.Name] = n
	}

	hwToLocal := make(map[string]int64, len(linked))
	for _, ln := range linked {
		n := mapLinkedNode(serverID, ln)

		if prev, ok := prevByName[n.Name]; ok && prev.Status != n.Status {
			e.notifyStatusChange(ctx, prev.ID, n.Name, n.Status)
		}

		nodeID, err := e.nodes.Upsert(ctx, n)
		if err != nil {
			return fmt.Errorf("upsert node %q: %w", n.Name, err)
		}
		if ln.NodeID != "" {
			hwToLocal[ln.NodeID] = nodeID
		}

		for _, c := range evaluateThresholds(nodeID, n) {
			if _, err := e.alerts.Raise(ctx, c); err != nil {
				e.log.Errorw("alert_raise_failed", "node", n.Name, "err", err)
			}
		}

		if sample {
			p := models.DataPoint{NodeID: nodeID, Voltage: n.Voltage, Current: n.Current}
			if err := e.datapoints.Append(ctx, p); err != nil {
				e.log.Errorw("datapoint_append_failed", "node", n.Name, "err", err)
			}
		}
	}

	e.setHardwareIDs(srv.IPAddress, hwToLocal)
	return nil
}

// importTelemetry drains the gateway's buffered samples since the
// process-local watermark. Best-effort end to end: any failure is logged
// and the next pass simply retries from the old watermark.
func (e *SyncEngine) importTelemetry(ctx context.Context, addr string, serverID int64) {
	since := e.watermark(addr)

	batch, err := e.transport.SyncTelemetry(ctx, addr, since)
	if err != nil {
		e.log.Infow("telemetry_sync_failed", "addr", addr, "err", err)
		return
	}
	if batch.LatestTimestamp <= since && len(batch.NewData) == 0 {
		return
	}

	hwToLocal := e.hardwareIDs(addr)
	for _, nt := range batch.NewData {
		nodeID, ok := hwToLocal[nt.NodeID]
		if !ok {
			continue
		}
		for _, s := range nt.DataPoints {
			p := models.DataPoint{
				NodeID:    nodeID,
				Voltage:   s.Voltage,
				Current:   s.Current,
				Timestamp: time.UnixMilli(s.Timestamp).UTC(),
			}
			if err := e.datapoints.Append(ctx, p); err != nil {
				e.log.Errorw("telemetry_append_failed", "addr", addr, "err", err)
				return
			}
		}
	}

	e.setWatermark(addr, batch.LatestTimestamp)

	if err := e.transport.AcknowledgeTelemetry(ctx, addr, batch.LatestTimestamp); err != nil {
		// Non-fatal: the gateway keeps the data a little longer.
		e.log.Infow("telemetry_ack_failed", "addr", addr, "err", err)
	}
}

// ToggleNode is the user command path: one SetNodeState call, no retry, no
// hysteresis. A failure propagates to the caller so the UI can roll back
// its optimistic update.
func (e *SyncEngine) ToggleNode(ctx context.Context, nodeID int64, state string) error {
	if state != models.NodeOn && state != models.NodeOff {
		return fmt.Errorf("invalid state %q: must be on or off", state)
	}

	node, err := e.nodes.Get(ctx, nodeID)
	if err != nil {
		return fmt.Errorf("load node %d: %w", nodeID, err)
	}

	srv, err := e.serverByID(ctx, node.ServerID)
	if err != nil {
		return err
	}

	if err := e.transport.SetNodeState(ctx, srv.IPAddress, node.Name, state); err != nil {
		return fmt.Errorf("set state of %q on %s: %w", node.Name, srv.IPAddress, err)
	}

	return e.nodes.UpdateStatus(ctx, nodeID, state, state)
}

func (e *SyncEngine) serverByID(ctx context.Context, id int64) (models.Server, error) {
	servers, err := e.servers.List(ctx)
	if err != nil {
		return models.Server{}, fmt.Errorf("list servers: %w", err)
	}
	for _, s := range servers {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Server{}, fmt.Errorf("server %d not found", id)
}

func (e *SyncEngine) notifyStatusChange(ctx context.Context, nodeID int64, name, status string) {
	n := notify.Notification{
		Title:    "Device update",
		Body:     fmt.Sprintf("%s is now %s", name, status),
		Priority: notify.PriorityNormal,
		NodeID:   nodeID,
	}
	if err := e.notifier.Send(ctx, n); err != nil {
		e.log.Warnw("device_notification_failed", "node", name, "err", err)
	}
}

// mapLinkedNode converts a wire-level node into the stored shape, filling
// the gaps real firmware leaves (no type/category, reachability split
// across status and state).
func mapLinkedNode(serverID int64, ln hardware.LinkedNode) models.Node {
	n := models.Node{
		ServerID:    serverID,
		Name:        ln.NodeName,
		Type:        ln.Type,
		Category:    ln.Category,
		Status:      ln.Status,
		State:       ln.State,
		Temperature: ln.Temperature,
		Voltage:     ln.Voltage,
		Current:     ln.Current,
	}
	if n.Type == "" {
		n.Type = defaultNodeType
	}
	if n.Category == "" {
		n.Category = defaultNodeCategory
	}
	switch ln.Status {
	case "online":
		n.Status = ln.State
	case models.NodeOffline:
		n.Status = models.NodeOffline
	}
	return n
}

// ---- process-local cross-pass state ----

// nextPass returns the current pass index and advances the counter.
func (e *SyncEngine) nextPass() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.passCount
	e.passCount++
	return p
}

func (e *SyncEngine) bumpFailures(addr string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[addr]++
	return e.failures[addr]
}

func (e *SyncEngine) resetFailures(addr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[addr] = 0
}

func (e *SyncEngine) watermark(addr string) int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.watermarks[addr]
}

func (e *SyncEngine) setWatermark(addr string, ts int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.watermarks[addr] = ts
}

// setHardwareIDs remembers this pass's hardware-id → local-row mapping so
// the telemetry import can attribute buffered samples.
func (e *SyncEngine) setHardwareIDs(addr string, m map[string]int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hwIDs[addr] = m
}

func (e *SyncEngine) hardwareIDs(addr string) map[string]int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hwIDs[addr]
}
