package localhost

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mapworks-io/protool/pkg/host"
)

var (
	ErrContainerExists = errors.New("container already exists")
	ErrDatasetExists   = errors.New("dataset already exists")
)

// Containers carry the GeoPackage application id so other tools recognize
// the file.
const containerApplicationID = 0x47504B47

// Bounding box columns looked up by Clip. Tables without them are treated
// as attribute-only and copied whole.
var extentColumns = [4]string{"minx", "miny", "maxx", "maxy"}

func (h *Host) CreateContainer(dir, name string) (string, error) {
	path := filepath.Join(dir, name)

	h.containers.Lock(path)
	defer h.containers.Unlock(path)

	if _, err := os.Lstat(path); err == nil {
		return "", fmt.Errorf("%w: %q", ErrContainerExists, path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("create container: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", fmt.Errorf("create container: %w", err)
	}
	defer db.Close()

	stmts := []string{
		fmt.Sprintf("PRAGMA application_id = %d", containerApplicationID),
		`CREATE TABLE gpkg_contents (
			table_name TEXT NOT NULL PRIMARY KEY,
			data_type TEXT NOT NULL,
			identifier TEXT
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return "", fmt.Errorf("create container: %w", err)
		}
	}
	return path, nil
}

// Clip copies the input rows whose bounding box intersects the extent of
// the mask dataset into a new output dataset. Attribute-only inputs are
// copied whole.
func (h *Host) Clip(inputDataset, maskDataset, outputDataset string) error {
	input, err := h.Table(inputDataset)
	if err != nil {
		return err
	}
	mask, err := h.Table(maskDataset)
	if err != nil {
		return err
	}

	ext, maskHasExtent := tableExtent(mask)
	if !maskHasExtent {
		return fmt.Errorf("clip: mask %q has no extent", maskDataset)
	}

	out := &host.Table{Fields: input.Fields}
	idx, inputHasExtent := extentIndices(input.Fields)
	for _, row := range input.Rows {
		if inputHasExtent && !rowIntersects(row, idx, ext) {
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return h.WriteDataset(outputDataset, out)
}

func (h *Host) RowCount(dataset string) (int, error) {
	container, table, err := splitDataset(dataset)
	if err != nil {
		return 0, err
	}
	db, err := openContainer(container)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %q", table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %q: %w", dataset, err)
	}
	return count, nil
}

func (h *Host) DeleteDataset(dataset string) error {
	container, table, err := splitDataset(dataset)
	if err != nil {
		return err
	}

	h.containers.Lock(container)
	defer h.containers.Unlock(container)

	db, err := openContainer(container)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(fmt.Sprintf("DROP TABLE %q", table)); err != nil {
		return fmt.Errorf("delete %q: %w", dataset, err)
	}
	if _, err := db.Exec("DELETE FROM gpkg_contents WHERE table_name = ?", table); err != nil {
		return fmt.Errorf("delete %q: %w", dataset, err)
	}
	return nil
}

func (h *Host) Table(dataset string) (*host.Table, error) {
	container, table, err := splitDataset(dataset)
	if err != nil {
		return nil, err
	}
	db, err := openContainer(container)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", dataset, err)
	}
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", dataset, err)
	}
	tbl := &host.Table{Fields: fields}
	for rows.Next() {
		row := make([]any, len(fields))
		ptrs := make([]any, len(fields))
		for i := range row {
			ptrs[i] = &row[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("read %q: %w", dataset, err)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %q: %w", dataset, err)
	}
	return tbl, nil
}

// WriteDataset creates a new table in a container and fills it. It is the
// write half of Table and is also used to stage fixture data.
func (h *Host) WriteDataset(dataset string, tbl *host.Table) error {
	container, table, err := splitDataset(dataset)
	if err != nil {
		return err
	}

	h.containers.Lock(container)
	defer h.containers.Unlock(container)

	db, err := openContainer(container)
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := containerHasTable(db, table)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrDatasetExists, dataset)
	}

	cols := make([]string, 0, len(tbl.Fields))
	for _, f := range tbl.Fields {
		cols = append(cols, fmt.Sprintf("%q", f))
	}
	if _, err := db.Exec(fmt.Sprintf("CREATE TABLE %q (%s)", table, strings.Join(cols, ", "))); err != nil {
		return fmt.Errorf("write %q: %w", dataset, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("write %q: %w", dataset, err)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(tbl.Fields)), ", ")
	insert := fmt.Sprintf("INSERT INTO %q VALUES (%s)", table, placeholders)
	for _, row := range tbl.Rows {
		if _, err := tx.Exec(insert, row...); err != nil {
			tx.Rollback()
			return fmt.Errorf("write %q: %w", dataset, err)
		}
	}
	if _, err := tx.Exec(
		"INSERT INTO gpkg_contents (table_name, data_type, identifier) VALUES (?, ?, ?)",
		table, "features", table,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("write %q: %w", dataset, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write %q: %w", dataset, err)
	}
	return nil
}

func openContainer(path string) (*sql.DB, error) {
	if _, err := os.Lstat(path); err != nil {
		return nil, fmt.Errorf("open container %q: %w", path, err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open container %q: %w", path, err)
	}
	return db, nil
}

func tableExists(container, table string) (bool, error) {
	if _, err := os.Lstat(container); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	db, err := openContainer(container)
	if err != nil {
		return false, err
	}
	defer db.Close()
	return containerHasTable(db, table)
}

func containerHasTable(db *sql.DB, table string) (bool, error) {
	var count int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("inspect container: %w", err)
	}
	return count > 0, nil
}

type extent struct {
	minX, minY, maxX, maxY float64
}

func extentIndices(fields []string) ([4]int, bool) {
	var idx [4]int
	for i := range idx {
		idx[i] = -1
	}
	for i, f := range fields {
		for j, name := range extentColumns {
			if strings.EqualFold(f, name) {
				idx[j] = i
			}
		}
	}
	for _, i := range idx {
		if i < 0 {
			return idx, false
		}
	}
	return idx, true
}

func tableExtent(tbl *host.Table) (extent, bool) {
	idx, ok := extentIndices(tbl.Fields)
	if !ok || len(tbl.Rows) == 0 {
		return extent{}, false
	}
	ext := extent{}
	for i, row := range tbl.Rows {
		minX, okA := toFloat(row[idx[0]])
		minY, okB := toFloat(row[idx[1]])
		maxX, okC := toFloat(row[idx[2]])
		maxY, okD := toFloat(row[idx[3]])
		if !okA || !okB || !okC || !okD {
			return extent{}, false
		}
		if i == 0 {
			ext = extent{minX: minX, minY: minY, maxX: maxX, maxY: maxY}
			continue
		}
		ext.minX = min(ext.minX, minX)
		ext.minY = min(ext.minY, minY)
		ext.maxX = max(ext.maxX, maxX)
		ext.maxY = max(ext.maxY, maxY)
	}
	return ext, true
}

func rowIntersects(row []any, idx [4]int, ext extent) bool {
	minX, okA := toFloat(row[idx[0]])
	minY, okB := toFloat(row[idx[1]])
	maxX, okC := toFloat(row[idx[2]])
	maxY, okD := toFloat(row[idx[3]])
	if !okA || !okB || !okC || !okD {
		return false
	}
	return minX <= ext.maxX && maxX >= ext.minX && minY <= ext.maxY && maxY >= ext.minY
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
