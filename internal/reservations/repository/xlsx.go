package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	reservationserrors "slotbook/internal/reservations/errors"
	"slotbook/pkg/logger"
	"slotbook/pkg/model"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	columnID        = "id"
	columnDate      = "date"
	columnStart     = "start"
	columnEnd       = "end"
	columnOwner     = "owner"
	columnUnitCount = "unit_count"
	columnCreatedAt = "created_at"
	columnUpdatedAt = "updated_at"
)

// sheetHeader keeps the column names of workbooks the desk tool writes, so
// both programs can share one file. ID and the timestamps are extra columns.
var sheetHeader = []any{"Data", "Inizio", "Fine", "Nome", "Apparati", "ID", "Creato", "Aggiornato"}

// headerAliases maps lower-cased header names onto canonical columns.
var headerAliases = map[string]string{
	"data":          columnDate,
	"inizio":        columnStart,
	"fine":          columnEnd,
	"nome":          columnOwner,
	"apparati":      columnUnitCount,
	"creato":        columnCreatedAt,
	"aggiornato":    columnUpdatedAt,
	columnID:        columnID,
	columnDate:      columnDate,
	columnStart:     columnStart,
	columnEnd:       columnEnd,
	columnOwner:     columnOwner,
	columnUnitCount: columnUnitCount,
	columnCreatedAt: columnCreatedAt,
	columnUpdatedAt: columnUpdatedAt,
}

// rowIDNamespace seeds the ids derived for rows that were written without one.
var rowIDNamespace = uuid.MustParse("6f1c2a64-3b8e-4c1d-9a57-2e0d4b7f8c31")

var requiredColumns = []string{columnDate, columnStart, columnEnd, columnOwner, columnUnitCount}

var (
	sheetDateLayouts  = []string{model.DateLayout, "2006-01-02 15:04:05", time.RFC3339}
	sheetClockLayouts = []string{model.ClockLayout, "15:04:05"}
)

// XlsxStore keeps the collection in the first sheet of a workbook, one
// reservation per row under a header row. Saves go through a temporary file
// and a rename so a crash never leaves a half written workbook behind.
// Load never writes: rows without an id get one derived from their position
// and content, persisted by the next Save.
type XlsxStore struct {
	mu       sync.Mutex
	path     string
	log      *logger.Logger
	openFile func(name string, opts ...excelize.Options) (*excelize.File, error)
}

// NewXlsxStore opens the workbook at path, creating an empty one if needed.
func NewXlsxStore(path string, log *logger.Logger) (*XlsxStore, error) {
	s := &XlsxStore{path: path, log: log, openFile: excelize.OpenFile}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(nil); err != nil {
			return nil, fmt.Errorf("failed to create workbook %s: %w", path, err)
		}
		log.Info("Created empty reservation workbook", "path", path)
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat workbook %s: %w", path, err)
	}

	return s, nil
}

func (s *XlsxStore) Load(ctx context.Context) ([]*model.Reservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return []*model.Reservation{}, nil
	}

	f, err := s.openFile(s.path)
	if err != nil {
		return s.readFailed(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return s.readFailed(err)
	}

	reservations, err := parseRows(rows)
	if err != nil {
		return s.reinitialize(err)
	}
	return reservations, nil
}

// readFailed reinitializes a workbook that failed to parse. I/O failures such as
// a permission error leave the file alone and are returned.
func (s *XlsxStore) readFailed(err error) ([]*model.Reservation, error) {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return nil, fmt.Errorf("failed to read workbook %s: %w", s.path, err)
	}
	return s.reinitialize(err)
}

func (s *XlsxStore) Save(ctx context.Context, reservations []*model.Reservation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(reservations)
}

func (s *XlsxStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("workbook directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workbook directory %s is not a directory", filepath.Dir(s.path))
	}
	return nil
}

// reinitialize moves an unreadable workbook aside and starts over empty.
// Callers must hold s.mu.
func (s *XlsxStore) reinitialize(cause error) ([]*model.Reservation, error) {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().UTC().Format("20060102T150405"))
	s.log.Warn("Reservation workbook is corrupt, reinitializing it empty",
		"path", s.path,
		"backup", backup,
		"error", cause,
	)

	if err := os.Rename(s.path, backup); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to move corrupt workbook aside: %w", errors.Join(reservationserrors.ErrCorruptStore, err))
	}
	if err := s.write(nil); err != nil {
		return nil, fmt.Errorf("failed to reinitialize workbook: %w", errors.Join(reservationserrors.ErrCorruptStore, err))
	}
	return []*model.Reservation{}, nil
}

// write renders the full collection into a fresh workbook. Callers must hold
// s.mu or own the store exclusively.
func (s *XlsxStore) write(reservations []*model.Reservation) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := sheetHeader
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, d := range toDocuments(reservations) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{d.Date, d.Start, d.End, d.Owner, d.UnitCount, d.ID, formatTimestamp(d.CreatedAt), formatTimestamp(d.UpdatedAt)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".reservations-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temporary workbook: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close workbook: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace workbook: %w", err)
	}
	return nil
}

// parseRows decodes a sheet. Rows without an id get a stable one derived
// from their row number and content.
func parseRows(rows [][]string) ([]*model.Reservation, error) {
	reservations := []*model.Reservation{}
	if len(rows) == 0 {
		return reservations, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		if canonical, ok := headerAliases[key]; ok {
			columns[canonical] = i
		}
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", reservationserrors.ErrCorruptStore, name)
		}
	}

	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cell := func(name string) string {
			i, ok := columns[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		d := document{
			ID:    cell(columnID),
			Date:  normalizeSheetValue(cell(columnDate), sheetDateLayouts, model.DateLayout),
			Start: normalizeSheetValue(cell(columnStart), sheetClockLayouts, model.ClockLayout),
			End:   normalizeSheetValue(cell(columnEnd), sheetClockLayouts, model.ClockLayout),
			Owner: cell(columnOwner),
		}
		d.CreatedAt = parseTimestamp(cell(columnCreatedAt))
		d.UpdatedAt = parseTimestamp(cell(columnUpdatedAt))

		units, err := parseUnitCount(cell(columnUnitCount))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", reservationserrors.ErrCorruptStore, n+2, err)
		}
		d.UnitCount = units
		if d.ID == "" {
			d.ID = rowID(n+2, d)
		}

		r, err := fromDocument(d)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		reservations = append(reservations, r)
	}

	return reservations, nil
}

func rowID(row int, d document) string {
	key := fmt.Sprintf("%d|%s|%s|%s|%s|%d", row, d.Date, d.Start, d.End, d.Owner, d.UnitCount)
	return uuid.NewSHA1(rowIDNamespace, []byte(key)).String()
}

// normalizeSheetValue rewrites values spreadsheet tools reformatted, such as
// a date with a midnight time attached, into the canonical layout.
func normalizeSheetValue(value string, layouts []string, canonical string) string {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(canonical)
		}
	}
	return value
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTimestamp treats a missing or unreadable audit timestamp as unset.
func parseTimestamp(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func parseUnitCount(value string) (int, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("unit_count %q is not a whole number", value)
	}
	return int(f), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
