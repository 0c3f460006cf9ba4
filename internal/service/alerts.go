package service

import (
	"context"
	"fmt"

	"auradash/internal/logger"
	"auradash/internal/models"
	"auradash/internal/notify"
	"auradash/internal/repository"

	"github.com/google/uuid"
)

// Notification titles by severity.
const (
	titleCritical = "Critical alert"
	titleWarning  = "Warning"
)

// AlertService persists candidate alerts with logical deduplication and
// dispatches notifications. Persistence and delivery are independent: a
// failed push never rolls back the alert row.
type AlertService struct {
	alerts   repository.AlertRepo
	notifier notify.Notifier
	log      *logger.Logger
}

func NewAlertService(alerts repository.AlertRepo, notifier notify.Notifier, log *logger.Logger) *AlertService {
	return &AlertService{alerts: alerts, notifier: notifier, log: log}
}

// dedupKey builds the suppression key for a candidate. The policy is exact
// message text per node, so a reading that ticks from 96° to 97° re-alerts.
// Swapping the policy (e.g. to message-category keys) only touches this
// function.
func dedupKey(nodeID int64, message string) string {
	return fmt.Sprintf("%d|%s", nodeID, message)
}

// Raise persists the candidate unless an unacknowledged alert with the
// same (node, message) already exists. Reports whether a new alert row was
// created.
func (s *AlertService) Raise(ctx context.Context, c AlertCandidate) (bool, error) {
	open, err := s.alerts.ListUnacknowledged(ctx)
	if err != nil {
		return false, fmt.Errorf("list unacknowledged alerts: %w", err)
	}

	key := dedupKey(c.NodeID, c.Message)
	for _, a := range open {
		if dedupKey(a.NodeID, a.Message) == key {
			return false, nil
		}
	}

	alert := models.Alert{
		ID:       uuid.NewString(),
		NodeID:   c.NodeID,
		Severity: c.Severity,
		Message:  c.Message,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return false, fmt.Errorf("create alert: %w", err)
	}

	s.dispatch(ctx, alert)
	return true, nil
}

// RaiseTransition persists an alert without deduplication. Used for
// conditions already edge-gated by the caller, such as a server's
// online→offline transition, which must alert on every distinct edge even
// while an earlier identical alert is still open.
func (s *AlertService) RaiseTransition(ctx context.Context, c AlertCandidate) error {
	alert := models.Alert{
		ID:       uuid.NewString(),
		NodeID:   c.NodeID,
		Severity: c.Severity,
		Message:  c.Message,
	}
	if err := s.alerts.Create(ctx, alert); err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	s.dispatch(ctx, alert)
	return nil
}

// dispatch pushes a notification for a freshly persisted alert.
// Best-effort: failures are logged and swallowed.
func (s *AlertService) dispatch(ctx context.Context, a models.Alert) {
	n := notify.Notification{
		Title:    titleWarning,
		Body:     a.Message,
		Priority: notify.PriorityNormal,
		NodeID:   a.NodeID,
		AlertID:  a.ID,
	}
	if a.Severity == models.SeverityCritical {
		n.Title = titleCritical
		n.Priority = notify.PriorityUrgent
	}

	if err := s.notifier.Send(ctx, n); err != nil {
		if s.log != nil {
			s.log.Warnw("alert_notification_failed", "alert_id", a.ID, "err", err)
		}
	}
}

func (s *AlertService) All(ctx context.Context) ([]models.Alert, error) {
	return s.alerts.List(ctx)
}

func (s *AlertService) Unacknowledged(ctx context.Context) ([]models.Alert, error) {
	return s.alerts.ListUnacknowledged(ctx)
}

// Acknowledge soft-deletes an alert; an acknowledged alert no longer
// suppresses identical candidates.
func (s *AlertService) Acknowledge(ctx context.Context, id string) error {
	return s.alerts.Acknowledge(ctx, id)
}
