package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
)

// ApplyMigrations executes every *.sql file in the filesystem in lexical
// order. Statements are idempotent (CREATE IF NOT EXISTS), so re-running on
// startup is safe; there is no version ledger.
func (p *Pool) ApplyMigrations(ctx context.Context, fsys fs.FS) error {
	entries, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := p.db.ExecContext(ctx, string(script)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
