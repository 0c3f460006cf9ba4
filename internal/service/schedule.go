package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"auradash/internal/hardware"
	"auradash/internal/logger"
	"auradash/internal/models"
	"auradash/internal/repository"
)

var (
	errInvalidAction = errors.New("invalid action: must be on or off")
	errInvalidTime   = errors.New("invalid time: must be HH:MM (24h)")

	timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// ScheduleService owns the local schedule list. Every local mutation is
// committed first and is authoritative; the matching remote push is
// advisory — a transport failure is logged, never surfaced, and never
// rolls the local change back.
type ScheduleService struct {
	schedules repository.ScheduleRepo
	nodes     repository.NodeRepo
	servers   repository.ServerRepo
	transport hardware.Transport
	log       *logger.Logger
}

func NewScheduleService(repos *repository.Repository, transport hardware.Transport, log *logger.Logger) *ScheduleService {
	return &ScheduleService{
		schedules: repos.Schedules,
		nodes:     repos.Nodes,
		servers:   repos.Servers,
		transport: transport,
		log:       log,
	}
}

func validateSchedule(s models.Schedule) error {
	if s.Action != models.NodeOn && s.Action != models.NodeOff {
		return errInvalidAction
	}
	if !timeOfDayRe.MatchString(s.Time) {
		return errInvalidTime
	}
	return nil
}

func (s *ScheduleService) Create(ctx context.Context, sched models.Schedule) (models.Schedule, error) {
	if err := validateSchedule(sched); err != nil {
		return models.Schedule{}, err
	}

	id, err := s.schedules.Create(ctx, sched)
	if err != nil {
		return models.Schedule{}, fmt.Errorf("create schedule: %w", err)
	}
	sched.ID = id

	s.pushRemote(ctx, sched.NodeID, func(addr string) error {
		return s.transport.CreateSchedule(ctx, addr, sched)
	})
	return sched, nil
}

func (s *ScheduleService) Update(ctx context.Context, sched models.Schedule) error {
	if err := validateSchedule(sched); err != nil {
		return err
	}

	if err := s.schedules.Update(ctx, sched); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}

	s.pushRemote(ctx, sched.NodeID, func(addr string) error {
		return s.transport.UpdateSchedule(ctx, addr, sched)
	})
	return nil
}

func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	sched, err := s.schedules.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load schedule %d: %w", id, err)
	}

	if err := s.schedules.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	s.pushRemote(ctx, sched.NodeID, func(addr string) error {
		return s.transport.DeleteSchedule(ctx, addr, id)
	})
	return nil
}

func (s *ScheduleService) List(ctx context.Context) ([]models.Schedule, error) {
	return s.schedules.List(ctx)
}

// pushRemote resolves the node's owning server and runs the remote
// mutation against it, best-effort.
func (s *ScheduleService) pushRemote(ctx context.Context, nodeID int64, push func(addr string) error) {
	node, err := s.nodes.Get(ctx, nodeID)
	if err != nil {
		s.log.Infow("schedule_push_skipped", "node_id", nodeID, "err", err)
		return
	}

	servers, err := s.servers.List(ctx)
	if err != nil {
		s.log.Infow("schedule_push_skipped", "node_id", nodeID, "err", err)
		return
	}

	for _, srv := range servers {
		if srv.ID != node.ServerID {
			continue
		}
		if err := push(srv.IPAddress); err != nil {
			s.log.Infow("schedule_push_failed", "addr", srv.IPAddress, "err", err)
		}
		return
	}
	s.log.Infow("schedule_push_skipped", "node_id", nodeID, "reason", "server not found")
}
