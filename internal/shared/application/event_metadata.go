package application

import (
	"github.com/google/uuid"

	"github.com/alessandroavenali/fuel-logistics/internal/shared/domain"
)

type metadataSetter interface {
	SetMetadata(metadata domain.EventMetadata)
}

// NewEventMetadata creates run-scoped metadata for domain events. There is
// no authenticated-user concept in this domain, so unlike the teacher's
// NewEventMetadata there is no UserID field to carry.
func NewEventMetadata() domain.EventMetadata {
	return domain.EventMetadata{
		CorrelationID: uuid.New(),
		CausationID:   uuid.New(),
	}
}

// ApplyEventMetadata sets metadata on all events that support it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if setter, ok := event.(metadataSetter); ok {
			setter.SetMetadata(metadata)
		}
	}
}
