package hierarchy

import (
	"context"

	"github.com/templui/keystone/internal/apperr"
)

// ChildCounter counts goals owned by userID whose parent is goalID.
type ChildCounter func(ctx context.Context, userID, goalID string) (int, error)

// CanDelete refuses deletion while any child exists, completed or not.
func CanDelete(ctx context.Context, goalID, userID string, count ChildCounter) error {
	n, err := count(ctx, userID, goalID)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Conflict("Cannot delete a goal that has active children.")
	}
	return nil
}
