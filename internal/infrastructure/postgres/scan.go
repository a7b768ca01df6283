package postgres

import (
	"strings"
	"time"

	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/entity"
	"github.com/mustafa-mbari/wmsv1-sub001/internal/domain/valueobject"
)

func buildAudit(id string, createdAt, updatedAt time.Time, deletedAt *time.Time, createdBy, updatedBy, deletedBy *string) (entity.AuditRecord, error) {
	eid, err := valueobject.ParseEntityID(id)
	if err != nil {
		return entity.AuditRecord{}, err
	}
	cb, err := parseActor(createdBy)
	if err != nil {
		return entity.AuditRecord{}, err
	}
	ub, err := parseActor(updatedBy)
	if err != nil {
		return entity.AuditRecord{}, err
	}
	db, err := parseActor(deletedBy)
	if err != nil {
		return entity.AuditRecord{}, err
	}
	return entity.AuditRecord{
		ID:        eid,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		CreatedBy: cb,
		UpdatedBy: ub,
		DeletedBy: db,
	}, nil
}

func parseActor(s *string) (*valueobject.EntityID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := valueobject.ParseEntityID(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// actorString converts an optional actor id into a nullable column value.
func actorString(id *valueobject.EntityID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func idStrings(ids []valueobject.EntityID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(cols, alias string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
