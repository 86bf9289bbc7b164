package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"itinera/pkg/utils"
)

var errNotPermutation = fmt.Errorf("order must list every existing id exactly once: %w", utils.ErrInvalidInput)

// resequence rewrites the ordering column of the rows in ids to start,
// start+1, ... in slice order. Every row in the scope is first moved to a
// negative value so the unique (scope, column) index never sees a duplicate
// mid-update.
func resequence(tx *gorm.DB, model any, scopeColumn string, scopeID uuid.UUID, column string, ids []uuid.UUID, start int) error {
	if err := tx.Model(model).
		Where(scopeColumn+" = ?", scopeID).
		UpdateColumn(column, gorm.Expr("-"+column+" - 1")).Error; err != nil {
		return err
	}
	for i, id := range ids {
		if err := tx.Model(model).
			Where("id = ?", id).
			UpdateColumn(column, start+i).Error; err != nil {
			return err
		}
	}
	return nil
}

func isPermutation(current, proposed []uuid.UUID) bool {
	if len(current) != len(proposed) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		seen[id] = false
	}
	for _, id := range proposed {
		used, ok := seen[id]
		if !ok || used {
			return false
		}
		seen[id] = true
	}
	return true
}
