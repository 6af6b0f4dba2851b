package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/invoicer/backend/internal/infrastructure/config"
)

// Dialects lists the per-driver migration directories kept in lockstep
var Dialects = []string{config.DriverPostgres, config.DriverMySQL, config.DriverSQLite}

const migrationUpTemplate = `-- Migration: {{.Name}} ({{.Dialect}})
-- Created: {{.Timestamp}}
-- Description: {{.Description}}

-- Write your UP migration SQL here

`

const migrationDownTemplate = `-- Migration: {{.Name}} ({{.Dialect}}, Rollback)
-- Created: {{.Timestamp}}
-- Description: Rollback for {{.Description}}

-- Write your DOWN migration SQL here

`

// MigrationFile describes a created migration: one up/down pair per dialect
type MigrationFile struct {
	Version     string
	Name        string
	Description string
	Timestamp   string
	UpPaths     map[string]string
	DownPaths   map[string]string
}

type templateData struct {
	Name        string
	Description string
	Timestamp   string
	Dialect     string
}

// CreateMigration creates an up/down pair under every dialect directory of
// migrationsDir. The version is one past the highest existing version.
func CreateMigration(migrationsDir, name, description string) (*MigrationFile, error) {
	base := sanitizeName(name)
	if base == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	next, err := nextVersion(migrationsDir)
	if err != nil {
		return nil, err
	}

	mf := &MigrationFile{
		Version:     fmt.Sprintf("%06d", next),
		Name:        name,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
		UpPaths:     make(map[string]string, len(Dialects)),
		DownPaths:   make(map[string]string, len(Dialects)),
	}
	fileBase := mf.Version + "_" + base

	created := make([]string, 0, 2*len(Dialects))
	cleanup := func() {
		for _, p := range created {
			_ = os.Remove(p)
		}
	}

	for _, dialect := range Dialects {
		dir := filepath.Join(migrationsDir, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to create migrations directory: %w", err)
		}

		data := templateData{Name: name, Description: description, Timestamp: mf.Timestamp, Dialect: dialect}
		upPath := filepath.Join(dir, fileBase+".up.sql")
		downPath := filepath.Join(dir, fileBase+".down.sql")

		if err := createMigrationFile(upPath, migrationUpTemplate, data); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to create up migration: %w", err)
		}
		created = append(created, upPath)

		if err := createMigrationFile(downPath, migrationDownTemplate, data); err != nil {
			cleanup()
			return nil, fmt.Errorf("failed to create down migration: %w", err)
		}
		created = append(created, downPath)

		mf.UpPaths[dialect] = upPath
		mf.DownPaths[dialect] = downPath
	}

	return mf, nil
}

func nextVersion(migrationsDir string) (int, error) {
	highest := 0
	for _, dialect := range Dialects {
		names, err := ListMigrations(filepath.Join(migrationsDir, dialect))
		if err != nil {
			return 0, err
		}
		for _, n := range names {
			prefix, _, _ := strings.Cut(n, "_")
			if v, err := strconv.Atoi(prefix); err == nil && v > highest {
				highest = v
			}
		}
	}
	return highest + 1, nil
}

func createMigrationFile(path, tmplContent string, data templateData) error {
	tmpl, err := template.New("migration").Parse(tmplContent)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// sanitizeName converts a migration name to a safe file name format
func sanitizeName(name string) string {
	result := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			result = append(result, c)
		case c >= 'A' && c <= 'Z':
			result = append(result, c+'a'-'A')
		case c == ' ' || c == '-' || c == '_':
			if len(result) > 0 && result[len(result)-1] != '_' {
				result = append(result, '_')
			}
		}
	}
	return strings.TrimSuffix(string(result), "_")
}

// ListMigrations returns the sorted base names of the up migrations in a directory
func ListMigrations(migrationsDir string) ([]string, error) {
	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	migrations := make([]string, 0)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if base, ok := strings.CutSuffix(entry.Name(), ".up.sql"); ok && base != "" {
			migrations = append(migrations, base)
		}
	}
	sort.Strings(migrations)
	return migrations, nil
}
