package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

// AuditService records an immutable trail of mutations. Writes go
// through the worker so handlers never wait on the audit table.
type AuditService struct {
	auditRepo repository.AuditRepository
	worker    *jobs.Worker
}

// NewAuditService creates a new audit service
func NewAuditService(auditRepo repository.AuditRepository, worker *jobs.Worker) *AuditService {
	return &AuditService{auditRepo: auditRepo, worker: worker}
}

// AuditEntry describes one mutation to be recorded
type AuditEntry struct {
	UserID     uint
	ContractID *uint
	Action     string
	Entity     string
	EntityID   uint
	Changes    any
	IPAddress  string
	UserAgent  string
}

// Record queues an audit entry for asynchronous persistence. Changes is
// serialized as JSON; a serialization failure drops the payload but
// still records the action.
func (s *AuditService) Record(entry AuditEntry) {
	var changes string
	if entry.Changes != nil {
		if b, err := json.Marshal(entry.Changes); err == nil {
			changes = string(b)
		}
	}

	log := &models.AuditLog{
		UserID:     entry.UserID,
		ContractID: entry.ContractID,
		Action:     entry.Action,
		Entity:     entry.Entity,
		EntityID:   entry.EntityID,
		Changes:    changes,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
	}

	// The bounded queue keeps entries roughly ordered per instance
	s.worker.Enqueue(func(ctx context.Context) error {
		return s.auditRepo.Create(ctx, log)
	})
}

// List retrieves audit logs with filters
func (s *AuditService) List(ctx context.Context, query *repository.AuditQuery) ([]models.AuditLog, int64, error) {
	return s.auditRepo.List(ctx, query)
}

// TrimOlderThan removes entries past the retention window. Called by the
// scheduled retention job.
func (s *AuditService) TrimOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return s.auditRepo.DeleteOlderThan(ctx, cutoff)
}
