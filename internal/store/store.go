// Package store keeps acquisition configs in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/slaide/seaconfig/internal/acquisition"
	"github.com/slaide/seaconfig/internal/log"
	"github.com/slaide/seaconfig/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when no config has the requested id.
var ErrNotFound = errors.New("config not found")

// Store wraps SQLite access for stored configs.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, logger: log.WithComponent("store")}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores a current-version config and returns its new id.
func (s *Store) Save(ctx context.Context, cfg acquisition.AcquisitionConfig) (id string, err error) {
	doc, err := cfg.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	id = uuid.NewString()
	var ts any
	if cfg.Timestamp != nil {
		ts = acquisition.FormatTimestamp(*cfg.Timestamp)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO configs (id, project_name, plate_name, cell_line, wellplate, spec_version, wells, channels, images, timestamp, saved_at, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		cfg.ProjectName,
		cfg.PlateName,
		cfg.CellLine,
		cfg.WellplateType.ID,
		cfg.Version.String(),
		len(cfg.SelectedWells()),
		len(cfg.EnabledChannels()),
		cfg.ImageCount(),
		ts,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(doc),
	)
	if err != nil {
		return "", err
	}

	if len(cfg.MachineConfig) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO config_machine_items (config_id, handle, value_kind, value) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return "", err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, it := range cfg.MachineConfig {
			if _, err := stmt.ExecContext(ctx, id, it.Handle, string(it.Kind()), it.FormatValue()); err != nil {
				return "", err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	s.logger.Debug().Str("id", id).Str("project", cfg.ProjectName).Msg("saved config")
	return id, nil
}

// Get loads a config. Documents go through the full read pipeline.
func (s *Store) Get(ctx context.Context, id string) (acquisition.AcquisitionConfig, error) {
	var doc string
	err := s.db.QueryRowContext(ctx, `SELECT document FROM configs WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return acquisition.AcquisitionConfig{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return acquisition.AcquisitionConfig{}, err
	}
	res, err := acquisition.Parse([]byte(doc))
	if err != nil {
		return acquisition.AcquisitionConfig{}, fmt.Errorf("stored config %s: %w", id, err)
	}
	if res.Migrated() {
		s.logger.Debug().Str("id", id).Strs("changes", res.Changes).Msg("migrated stored config")
	}
	return res.Config, nil
}

// Delete removes a config and its machine settings.
func (s *Store) Delete(ctx context.Context, id string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM config_machine_items WHERE config_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM configs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		err = fmt.Errorf("%w: %s", ErrNotFound, id)
		return err
	}
	if err = tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug().Str("id", id).Msg("deleted config")
	return nil
}

// List returns summaries of stored configs, newest first.
func (s *Store) List(ctx context.Context, filter model.ListFilter) ([]model.ConfigSummary, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Project != "" {
		clauses = append(clauses, "project_name = ?")
		args = append(args, filter.Project)
	}
	if filter.Plate != "" {
		clauses = append(clauses, "wellplate = ?")
		args = append(args, filter.Plate)
	}
	if filter.Since != nil {
		clauses = append(clauses, "saved_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.RFC3339Nano))
	}
	handles := make([]string, 0, len(filter.Machine))
	for h := range filter.Machine {
		handles = append(handles, h)
	}
	sort.Strings(handles)
	for _, h := range handles {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM config_machine_items m
			WHERE m.config_id = configs.id AND m.handle = ? AND m.value = ?)`)
		args = append(args, h, filter.Machine[h])
	}
	limit := ""
	if filter.Limit > 0 {
		limit = "LIMIT ?"
		args = append(args, filter.Limit)
	}
	query := fmt.Sprintf(`SELECT id, project_name, plate_name, cell_line, wellplate, spec_version,
		wells, channels, images, timestamp, saved_at
		FROM configs
		WHERE %s
		ORDER BY saved_at DESC
		%s`, strings.Join(clauses, " AND "), limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.ConfigSummary
	for rows.Next() {
		var sum model.ConfigSummary
		var ts sql.NullString
		var savedAt string
		if err := rows.Scan(&sum.ID, &sum.ProjectName, &sum.PlateName, &sum.CellLine, &sum.Wellplate,
			&sum.SpecVersion, &sum.Wells, &sum.Channels, &sum.Images, &ts, &savedAt); err != nil {
			return nil, err
		}
		if ts.Valid {
			parsed, err := acquisition.ParseTimestamp(ts.String)
			if err != nil {
				return nil, err
			}
			sum.Timestamp = &parsed
		}
		parsed, err := time.Parse(time.RFC3339Nano, savedAt)
		if err != nil {
			return nil, err
		}
		sum.SavedAt = parsed
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
