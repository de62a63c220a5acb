package service

import (
	"context"
	"fmt"
)

// DeleteFunc deletes one item by id.
type DeleteFunc func(ctx context.Context, id string) error

// DeleteAll removes the given items one at a time, in order. The serial loop
// is deliberate: it bounds concurrent load on the backend. The first failure
// stops the loop; remaining items are left in place and the caller must
// refetch to see what actually survived.
//
// Returns how many deletes succeeded before stopping.
func DeleteAll(ctx context.Context, del DeleteFunc, ids []string) (int, error) {
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return i, fmt.Errorf("bulk delete aborted after %d of %d: %w", i, len(ids), err)
		}
		if err := del(ctx, id); err != nil {
			return i, fmt.Errorf("delete %s (%d of %d): %w", id, i+1, len(ids), err)
		}
	}
	return len(ids), nil
}
