package entity

import (
	"time"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/event"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

// AuditableEntity carries identity, audit timestamps, actor back-references
// and the pending domain-event list shared by every aggregate. Deletion is a
// soft-delete marker: DeletedAt set, row kept.
type AuditableEntity struct {
	id        valueobject.EntityID
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time

	createdBy *valueobject.EntityID
	updatedBy *valueobject.EntityID
	deletedBy *valueobject.EntityID

	pending []event.DomainEvent
}

func newAuditableEntity(id valueobject.EntityID, createdBy *valueobject.EntityID) AuditableEntity {
	now := time.Now().UTC()
	return AuditableEntity{id: id, createdAt: now, updatedAt: now, createdBy: createdBy}
}

// AuditRecord is the flat form used when reconstituting from storage.
type AuditRecord struct {
	ID        valueobject.EntityID
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	CreatedBy *valueobject.EntityID
	UpdatedBy *valueobject.EntityID
	DeletedBy *valueobject.EntityID
}

func reconstituteAuditable(rec AuditRecord) AuditableEntity {
	return AuditableEntity{
		id:        rec.ID,
		createdAt: rec.CreatedAt,
		updatedAt: rec.UpdatedAt,
		deletedAt: rec.DeletedAt,
		createdBy: rec.CreatedBy,
		updatedBy: rec.UpdatedBy,
		deletedBy: rec.DeletedBy,
	}
}

func (a *AuditableEntity) ID() valueobject.EntityID { return a.id }
func (a *AuditableEntity) CreatedAt() time.Time     { return a.createdAt }
func (a *AuditableEntity) UpdatedAt() time.Time     { return a.updatedAt }

func (a *AuditableEntity) CreatedBy() *valueobject.EntityID { return a.createdBy }
func (a *AuditableEntity) UpdatedBy() *valueobject.EntityID { return a.updatedBy }
func (a *AuditableEntity) DeletedBy() *valueobject.EntityID { return a.deletedBy }

func (a *AuditableEntity) DeletedAt() *time.Time {
	if a.deletedAt == nil {
		return nil
	}
	t := *a.deletedAt
	return &t
}

func (a *AuditableEntity) IsDeleted() bool { return a.deletedAt != nil }

// MarkDeleted stamps the soft-delete marker. Idempotent.
func (a *AuditableEntity) MarkDeleted(by *valueobject.EntityID) {
	if a.deletedAt != nil {
		return
	}
	now := time.Now().UTC()
	a.deletedAt = &now
	a.deletedBy = by
}

// Unmark clears the soft-delete marker. Idempotent.
func (a *AuditableEntity) Unmark(by *valueobject.EntityID) {
	if a.deletedAt == nil {
		return
	}
	a.deletedAt = nil
	a.deletedBy = nil
	a.touch(by)
}

// touch bumps the update stamp; called by every real state transition and
// never by no-ops.
func (a *AuditableEntity) touch(by *valueobject.EntityID) {
	a.updatedAt = time.Now().UTC()
	if by != nil {
		a.updatedBy = by
	}
}

func (a *AuditableEntity) recordEvent(e event.DomainEvent) {
	a.pending = append(a.pending, e)
}

// PullEvents returns and clears the pending event list. The application layer
// calls this after a successful save to hand events to the dispatcher.
func (a *AuditableEntity) PullEvents() []event.DomainEvent {
	out := a.pending
	a.pending = nil
	return out
}

// PendingEvents returns the queued events without clearing them.
func (a *AuditableEntity) PendingEvents() []event.DomainEvent {
	out := make([]event.DomainEvent, len(a.pending))
	copy(out, a.pending)
	return out
}

func (a *AuditableEntity) ClearEvents() { a.pending = nil }
