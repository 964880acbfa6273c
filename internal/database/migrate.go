package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"medquest/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// RunMigrations executes every *.up.sql file in dir in lexical order.
// Oracle rejects multi-statement execs, so each file is split on
// semicolons that terminate a line.
func RunMigrations(ctx context.Context, db sqlx.ExecerContext, dir string) error {
	files, err := migrationFiles(dir, ".up.sql")
	if err != nil {
		return err
	}
	return execFiles(ctx, db, files)
}

// RollbackMigrations executes every *.down.sql file in reverse order.
func RollbackMigrations(ctx context.Context, db sqlx.ExecerContext, dir string) error {
	files, err := migrationFiles(dir, ".down.sql")
	if err != nil {
		return err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(files)))
	return execFiles(ctx, db, files)
}

func migrationFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read migrations directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func execFiles(ctx context.Context, db sqlx.ExecerContext, files []string) error {
	log := logger.Get()
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("could not read migration file %s: %w", file, err)
		}
		for i, stmt := range splitStatements(string(content)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("could not execute statement %d of %s: %w", i+1, filepath.Base(file), err)
			}
		}
		log.Info("Executed migration", zap.String("file", filepath.Base(file)))
	}
	return nil
}

func splitStatements(script string) []string {
	var (
		stmts []string
		buf   strings.Builder
	)
	for _, line := range strings.Split(script, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSuffix(strings.TrimSpace(buf.String()), ";")
			stmts = append(stmts, strings.TrimSpace(stmt))
			buf.Reset()
		}
	}
	if rest := strings.TrimSpace(buf.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}
