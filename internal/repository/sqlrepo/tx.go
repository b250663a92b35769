// Package sqlrepo содержит реализации репозиториев поверх database/sql.
// Запросы переносимы между PostgreSQL (lib/pq) и SQLite (go-sqlite3):
// плейсхолдеры $N идут по возрастанию и каждый встречается один раз.
package sqlrepo

import (
	"context"
	"database/sql"
	"fmt"
)

// withTx выполняет fn в транзакции; при ошибке транзакция откатывается.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) {
	_ = rows.Close()
}
