package history

import "context"

type Repository interface {
	Append(ctx context.Context, entries []Entry) error
	// ListByApplication devuelve las entradas en orden cronológico.
	ListByApplication(ctx context.Context, applicationID string) ([]Entry, error)
}
