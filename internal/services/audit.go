package services

import (
	"log"
	"sync"
	"time"

	"github.com/gupranay/recruitment-v11-sub000/internal/db"
	"github.com/gupranay/recruitment-v11-sub000/internal/models"
)

// AuditService writes audit events asynchronously so privileged operations
// never block on the ledger. Best-effort: a full queue drops the event
// with a log line rather than stalling the request.
type AuditService struct {
	queue chan models.AuditEvent
}

var (
	auditService *AuditService
	auditOnce    sync.Once
)

// GetAuditService returns the singleton audit writer.
func GetAuditService() *AuditService {
	auditOnce.Do(func() {
		auditService = &AuditService{
			queue: make(chan models.AuditEvent, 1000),
		}
		go auditService.worker()
	})
	return auditService
}

// Record enqueues an audit event without blocking.
func (s *AuditService) Record(organizationID, actorID uint, action, subject string) {
	event := models.AuditEvent{
		OrganizationID: organizationID,
		ActorID:        actorID,
		Action:         action,
		Subject:        subject,
	}
	select {
	case s.queue <- event:
	default:
		log.Printf("audit queue full, dropping event %s %s", action, subject)
	}
}

// worker drains the queue in batches.
func (s *AuditService) worker() {
	batch := make([]models.AuditEvent, 0, 50)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case event := <-s.queue:
			batch = append(batch, event)
			if len(batch) >= 50 {
				s.writeBatch(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				s.writeBatch(batch)
				batch = batch[:0]
			}
		}
	}
}

func (s *AuditService) writeBatch(events []models.AuditEvent) {
	if err := db.DB.Create(&events).Error; err != nil {
		log.Printf("failed to write %d audit events: %v", len(events), err)
	}
}
