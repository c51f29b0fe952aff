package export

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/xuri/excelize/v2"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/layers"
)

const sheetName = "Sheet1"

var (
	// ErrLayerExport indicates one or more layers could not be read.
	ErrLayerExport = errors.New("layer export failed")

	// ErrWriteWorkbook indicates the workbook could not be written.
	ErrWriteWorkbook = errors.New("write workbook failed")
)

// Exporter writes attribute tables through a host handle.
type Exporter struct {
	host        host.Host
	subs        []func(any)
	visibleOnly bool
}

func NewExporter(h host.Host, opts ...Option) *Exporter {
	e := &Exporter{
		host:        h,
		subs:        []func(any){},
		visibleOnly: true,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type Option func(*Exporter)

// WithVisibleOnly controls whether only effectively visible layers are
// exported. Defaults to true.
func WithVisibleOnly(visibleOnly bool) Option {
	return func(e *Exporter) {
		e.visibleOnly = visibleOnly
	}
}

// Subscribe registers f to receive export progress events.
func (e *Exporter) Subscribe(f func(any)) {
	e.subs = append(e.subs, f)
}

func (e *Exporter) broadcastEvent(evt any) {
	for _, sub := range e.subs {
		sub(evt)
	}
}

// ExportMap writes the attribute tables of m's feature layers to an .xlsx
// workbook at outputPath, overwriting any existing file. Layers that fail
// to read are skipped; their errors are aggregated into the returned error
// after the workbook is written.
func (e *Exporter) ExportMap(m host.Map, outputPath string) error {
	err := e.exportMap(m, outputPath)
	e.broadcastEvent(EventDone{Err: err})

	return err
}

func (e *Exporter) exportMap(m host.Map, outputPath string) error {
	featureLayers, err := layers.Collect(m.Layers(), layers.Options{VisibleOnly: e.visibleOnly})
	if err != nil {
		return fmt.Errorf("collect layers: %w", err)
	}

	e.broadcastEvent(EventSetLayerTotal(len(featureLayers)))

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // Best-effort close.

	var merr *multierror.Error

	nextRow := 1

	for _, layer := range featureLayers {
		e.broadcastEvent(EventExportingLayer(layer.Name()))

		rows, wrote, err := e.writeLayer(f, layer, nextRow)
		e.broadcastEvent(EventExportedLayer{
			Layer: layer.Name(),
			Rows:  rows,
			Err:   err,
		})
		if err != nil {
			slog.Warn("failed to export layer",
				slog.String("layer", layer.Name()),
				slog.Any("err", err),
			)
			merr = multierror.Append(merr, fmt.Errorf("%w: %s: %w", ErrLayerExport, layer.Name(), err))

			continue
		}

		nextRow = wrote
	}

	if err := f.SaveAs(outputPath); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("%w: %s: %w", ErrWriteWorkbook, outputPath, err))
	}

	return merr.ErrorOrNil()
}

// writeLayer writes one layer's section starting at startRow: a dataset
// name label, the field header, all rows, and a blank spacer row. It
// returns the row count and the next free row.
func (e *Exporter) writeLayer(f *excelize.File, layer layers.Node, startRow int) (int, int, error) {
	dataset := layer.DataSource()

	tbl, err := e.host.Table(dataset)
	if err != nil {
		return 0, startRow, fmt.Errorf("read table: %w", err)
	}

	row := startRow

	err = setCell(f, 1, row, filepath.Base(dataset))
	if err != nil {
		return 0, startRow, err
	}
	row++

	for i, field := range tbl.Fields {
		if err := setCell(f, i+1, row, field); err != nil {
			return 0, startRow, err
		}
	}
	row++

	for _, values := range tbl.Rows {
		for i, value := range values {
			if err := setCell(f, i+1, row, value); err != nil {
				return 0, startRow, err
			}
		}
		row++
	}

	// Blank row between layer sections.
	row++

	return len(tbl.Rows), row, nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell %d:%d: %w", col, row, err)
	}

	err = f.SetCellValue(sheetName, cell, value)
	if err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}

	return nil
}
