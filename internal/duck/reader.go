// Package duck reads reference tables and stores game logs through an embedded DuckDB.
package duck

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chiefotto/clustercalculator/internal/models"
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/sirupsen/logrus"
)

// Reader runs table reads against an embedded DuckDB database
type Reader struct {
	log *logrus.Entry
	db  *sql.DB
}

// NewReader opens DuckDB at path; an empty path is in-memory
func NewReader(log *logrus.Logger, path string) (*Reader, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create duckdb directory: %w", err)
		}
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}
	return &Reader{log: log.WithField("component", "duck"), db: db}, nil
}

// Close closes the database
func (r *Reader) Close() error {
	return r.db.Close()
}

// DB returns the underlying database handle
func (r *Reader) DB() *sql.DB {
	return r.db
}

// ReadTable reads a CSV or parquet file into an untyped table. CSV cells are read
// verbatim; typed parquet cells are rendered as text.
func (r *Reader) ReadTable(ctx context.Context, path string) (models.RawTable, error) {
	if _, err := os.Stat(path); err != nil {
		return models.RawTable{}, fmt.Errorf("read table %s: %w", path, err)
	}

	start := time.Now()
	query := "SELECT * FROM " + sourceExpr(path)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to query %s: %w", path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return models.RawTable{}, fmt.Errorf("failed to read columns of %s: %w", path, err)
	}

	table := models.RawTable{Columns: columns}
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return models.RawTable{}, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			row[i] = formatCell(v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return models.RawTable{}, fmt.Errorf("failed to iterate %s: %w", path, err)
	}

	r.log.WithFields(logrus.Fields{
		"path":        path,
		"rows":        table.Len(),
		"columns":     len(columns),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Table read")
	return table, nil
}

// Teams reads the team registry table
func (r *Reader) Teams(ctx context.Context, path string) ([]models.TeamRecord, error) {
	t, err := r.ReadTable(ctx, path)
	if err != nil {
		return nil, err
	}
	idCol := pick(t, "id", "team_id")
	nameCol := pick(t, "full_name", "team_name", "name")
	abbrCol := pick(t, "abbreviation", "team_abbreviation", "abbr")
	if idCol < 0 || abbrCol < 0 {
		return nil, fmt.Errorf("teams table %s needs id and abbreviation: %w", path, models.ErrMissingColumn)
	}

	out := make([]models.TeamRecord, 0, t.Len())
	for i, row := range t.Rows {
		id, err := models.ParseID(row[idCol])
		if err != nil {
			return nil, fmt.Errorf("teams table %s row %d: %w", path, i, err)
		}
		rec := models.TeamRecord{ID: id, Abbreviation: strings.TrimSpace(row[abbrCol])}
		if nameCol >= 0 {
			rec.FullName = strings.TrimSpace(row[nameCol])
		}
		out = append(out, rec)
	}
	return out, nil
}

// ClusterAssignments reads the team to cluster table
func (r *Reader) ClusterAssignments(ctx context.Context, path string) ([]models.ClusterAssignment, error) {
	t, err := r.ReadTable(ctx, path)
	if err != nil {
		return nil, err
	}
	teamCol := pick(t, "team_id", "id")
	clusterCol := pick(t, "cluster")
	if teamCol < 0 || clusterCol < 0 {
		return nil, fmt.Errorf("cluster table %s needs TEAM_ID and cluster: %w", path, models.ErrMissingColumn)
	}

	out := make([]models.ClusterAssignment, 0, t.Len())
	for i, row := range t.Rows {
		team, err := models.ParseID(row[teamCol])
		if err != nil {
			return nil, fmt.Errorf("cluster table %s row %d: %w", path, i, err)
		}
		cluster, err := models.ParseID(row[clusterCol])
		if err != nil {
			return nil, fmt.Errorf("cluster table %s row %d: %w", path, i, err)
		}
		out = append(out, models.ClusterAssignment{TeamID: team, Cluster: cluster})
	}
	return out, nil
}

func sourceExpr(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return "read_parquet(" + quoteLiteral(path) + ")"
	}
	return "read_csv(" + quoteLiteral(path) + ", header = true, all_varchar = true)"
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// pick returns the first column matching any name case-insensitively, or -1
func pick(t models.RawTable, names ...string) int {
	for _, name := range names {
		for i, c := range t.Columns {
			if strings.EqualFold(strings.TrimSpace(c), name) {
				return i
			}
		}
	}
	return -1
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}
