package insight

import (
	"context"
)

// Repository defines operations for insight persistence
type Repository interface {
	// Insert appends a new insight. Insights are never updated or
	// deleted through this interface.
	Insert(ctx context.Context, ins *Insight) error
}
