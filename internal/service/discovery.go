package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"auradash/internal/hardware"
	"auradash/internal/logger"
	"auradash/internal/models"
	"auradash/internal/repository"
)

// Discovery defaults.
const (
	DefaultProbeTimeout = 500 * time.Millisecond
	DefaultProbeBatch   = 20
	firstHostSuffix     = 1
	lastHostSuffix      = 254
)

// DiscoveryService probes a /24 range for reachable servers. Probes run
// with a short deadline and at most batchSize in flight at a time, so a
// scan never floods the network with 254 simultaneous requests.
type DiscoveryService struct {
	servers      repository.ServerRepo
	transport    hardware.Transport
	syncer       Syncer
	log          *logger.Logger
	probeTimeout time.Duration
	batchSize    int
}

func NewDiscoveryService(servers repository.ServerRepo, transport hardware.Transport, syncer Syncer, log *logger.Logger, cfg Config) *DiscoveryService {
	timeout := cfg.DiscoveryTimeout
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	batch := cfg.DiscoveryBatchSize
	if batch <= 0 {
		batch = DefaultProbeBatch
	}
	return &DiscoveryService{
		servers:      servers,
		transport:    transport,
		syncer:       syncer,
		log:          log,
		probeTimeout: timeout,
		batchSize:    batch,
	}
}

// Scan probes host suffixes 1–254 on the caller's subnet, upserts every
// server that answers, then triggers one full sync pass to reconcile the
// newcomers' nodes. Returns how many servers answered.
func (d *DiscoveryService) Scan(ctx context.Context, localAddr string) (int, error) {
	prefix, err := subnetPrefix(localAddr)
	if err != nil {
		return 0, err
	}

	d.log.Infow("discovery_scan_started", "subnet", prefix+".0/24")

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		found int
	)
	sem := make(chan struct{}, d.batchSize)

	for i := firstHostSuffix; i <= lastHostSuffix; i++ {
		if ctx.Err() != nil {
			break
		}
		target := fmt.Sprintf("%s.%d", prefix, i)

		wg.Add(1)
		sem <- struct{}{}
		go func(target string) {
			defer wg.Done()
			defer func() { <-sem }()

			if d.probe(ctx, target) {
				mu.Lock()
				found++
				mu.Unlock()
			}
		}(target)
	}
	wg.Wait()

	d.log.Infow("discovery_scan_finished", "found", found)

	if err := d.syncer.RunPass(ctx); err != nil {
		return found, fmt.Errorf("post-scan sync pass: %w", err)
	}
	return found, nil
}

// probe issues one short-deadline status request and records the server on
// success.
func (d *DiscoveryService) probe(ctx context.Context, target string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	defer cancel()

	status, err := d.transport.GetStatus(probeCtx, target)
	if err != nil {
		return false
	}

	name := status.ServerName
	if name == "" {
		name = target
	}
	if _, err := d.servers.Upsert(ctx, name, target, models.ServerOnline); err != nil {
		d.log.Errorw("discovery_upsert_failed", "addr", target, "err", err)
		return false
	}

	d.log.Infow("discovery_server_found", "addr", target, "name", name)
	return true
}

// subnetPrefix derives the /24 prefix from the device's own address,
// e.g. "192.168.1.42" → "192.168.1".
func subnetPrefix(localAddr string) (string, error) {
	idx := strings.LastIndex(localAddr, ".")
	if idx <= 0 {
		return "", fmt.Errorf("cannot derive subnet from address %q", localAddr)
	}
	return localAddr[:idx], nil
}
