package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// nextval draws the next folio from a Postgres sequence. seq is always one of
// the infra.SeqFolio* constants, never user input.
func nextval(ctx context.Context, tx *gorm.DB, seq string) (int, error) {
	var n int
	err := tx.WithContext(ctx).Raw(fmt.Sprintf("SELECT nextval('%s')", seq)).Scan(&n).Error
	return n, err
}

func offset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
