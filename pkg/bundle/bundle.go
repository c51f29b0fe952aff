package bundle

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/iancoleman/strcase"

	"github.com/mapworks-io/protool/pkg/host"
	"github.com/mapworks-io/protool/pkg/layers"
)

var (
	// ErrNoMaps indicates the project contains no maps to clip.
	ErrNoMaps = errors.New("project has no maps")

	// ErrClip indicates one or more layers failed to clip.
	ErrClip = errors.New("clip failed")
)

// Bundler clips a project's layers through a host handle.
type Bundler struct {
	host        host.Host
	subs        []func(any)
	visibleOnly bool
}

func NewBundler(h host.Host, opts ...Option) *Bundler {
	b := &Bundler{
		host: h,
		subs: []func(any){},
	}
	for _, opt := range opts {
		opt(b)
	}

	return b
}

type Option func(*Bundler)

// WithVisibleOnly restricts clipping to effectively visible layers.
func WithVisibleOnly(visibleOnly bool) Option {
	return func(b *Bundler) {
		b.visibleOnly = visibleOnly
	}
}

// Subscribe registers f to receive clip progress events.
func (b *Bundler) Subscribe(f func(any)) {
	b.subs = append(b.subs, f)
}

func (b *Bundler) broadcastEvent(evt any) {
	for _, sub := range b.subs {
		sub(evt)
	}
}

// ClipMap clips every feature layer of the project's first map to
// maskDataset, writing outputs into the container at containerPath. Each
// original layer is removed from the map; non-empty outputs are added back,
// empty ones are deleted. The project is saved once at the end. Per-layer
// failures do not stop the remaining layers; they are aggregated into the
// returned error.
func (b *Bundler) ClipMap(proj host.Project, containerPath, maskDataset string) error {
	err := b.clipMap(proj, containerPath, maskDataset)
	b.broadcastEvent(EventDone{Err: err})

	return err
}

func (b *Bundler) clipMap(proj host.Project, containerPath, maskDataset string) error {
	maps := proj.Maps()
	if len(maps) == 0 {
		return fmt.Errorf("%w: %s", ErrNoMaps, proj.Path())
	}

	// By convention the first map is the one to bundle.
	m := maps[0]

	featureLayers, err := layers.Collect(m.Layers(), layers.Options{VisibleOnly: b.visibleOnly})
	if err != nil {
		return fmt.Errorf("collect layers: %w", err)
	}

	b.broadcastEvent(EventSetLayerTotal(len(featureLayers)))

	logger := slog.With(
		slog.String("map", m.Name()),
		slog.String("container", containerPath),
	)

	var merr *multierror.Error

	outputsToAdd := []string{}
	layersToRemove := []layers.Node{}
	usedNames := map[string]bool{}

	for _, layer := range featureLayers {
		b.broadcastEvent(EventClippingLayer(layer.Name()))

		output := filepath.Join(containerPath, datasetName(layer.Name(), usedNames))

		logger.Debug("clipping layer",
			slog.String("layer", layer.Name()),
			slog.String("output", output),
		)

		rows, err := b.clipLayer(layer, maskDataset, output)
		b.broadcastEvent(EventClippedLayer{
			Layer:  layer.Name(),
			Output: output,
			Rows:   rows,
			Err:    err,
		})
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%w: %s: %w", ErrClip, layer.Name(), err))

			continue
		}

		// Originals are swapped out even when their clip came up empty.
		layersToRemove = append(layersToRemove, layer)

		if rows > 0 {
			outputsToAdd = append(outputsToAdd, output)
		} else {
			logger.Debug("clip result empty, deleting",
				slog.String("layer", layer.Name()),
			)

			if err := b.host.DeleteDataset(output); err != nil {
				merr = multierror.Append(merr, fmt.Errorf("delete empty output %s: %w", output, err))
			}
		}
	}

	for _, output := range outputsToAdd {
		if err := m.AddDataFromPath(output); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("add %s: %w", output, err))
		}
	}

	for _, layer := range layersToRemove {
		if err := m.RemoveLayer(layer); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("remove %s: %w", layer.Name(), err))
		}
	}

	if err := proj.Save(); err != nil {
		merr = multierror.Append(merr, fmt.Errorf("persist project: %w", err))
	}

	return merr.ErrorOrNil()
}

func (b *Bundler) clipLayer(layer layers.Node, maskDataset, output string) (int, error) {
	err := b.host.Clip(layer.DataSource(), maskDataset, output)
	if err != nil {
		return 0, err
	}

	rows, err := b.host.RowCount(output)
	if err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}

	return rows, nil
}

// datasetName derives a container-safe dataset name from a layer name.
// Collisions get a short random suffix so one layer never overwrites
// another's output.
func datasetName(layerName string, used map[string]bool) string {
	name := strcase.ToSnake(layerName)
	if used[name] {
		name = fmt.Sprintf("%s_%.8s", name, uuid.NewString())
	}

	used[name] = true

	return name
}
