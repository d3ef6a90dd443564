package clinicdata

import "context"

// Repository persists the whole clinic document. Implementations overwrite
// the entire dataset on every Save; there are no partial updates or
// transactions across records.
type Repository interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}
