package nn

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/born-ml/dragon/internal/blobs"
	"github.com/born-ml/dragon/internal/serialization"
	"k8s.io/klog/v2"
)

// Records serializes every layer, in order.
func (m *Model) Records() ([]serialization.Record, error) {
	records := make([]serialization.Record, 0, len(m.layers))
	for i, e := range m.layers {
		payload, err := e.layer.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, e.layer.Name(), err)
		}
		records = append(records, serialization.Record{
			Type:       e.layer.Name(),
			Activation: e.layer.Activation().Name(),
			Payload:    string(payload),
		})
	}
	return records, nil
}

// Save writes the model to w.
func (m *Model) Save(w io.Writer, opts serialization.Options) error {
	records, err := m.Records()
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	return serialization.Encode(w, records, opts)
}

// Load decodes a model from r and appends its layers, which the model then
// owns. Either every layer is appended or, on error, none is.
func (m *Model) Load(r io.Reader) error {
	doc, err := serialization.Decode(r)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	built, err := m.build(doc.Layers)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	m.layers = append(m.layers, built...)
	klog.V(2).InfoS("Loaded model", "layers", len(built), "formatVersion", doc.FormatVersion, "id", doc.ID)
	return nil
}

func (m *Model) build(records []serialization.Record) ([]entry, error) {
	built := make([]entry, 0, len(records))
	for i, rec := range records {
		layer, err := m.registry.NewLayer(rec.Type)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		act, err := m.registry.Activation(rec.Activation)
		if err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, rec.Type, err)
		}
		if err := layer.UnmarshalText([]byte(rec.Payload)); err != nil {
			return nil, fmt.Errorf("layer %d (%s): %w", i, rec.Type, err)
		}
		layer.SetActivation(act)
		built = append(built, entry{layer: layer, owned: true})
	}
	return built, nil
}

// SaveLocation writes the model to a local path or gs:// URL. Local files
// are replaced atomically. A missing directory or bucket returns an error
// matching ErrModelNotFound.
func (m *Model) SaveLocation(ctx context.Context, location string, opts serialization.Options) error {
	loc, err := blobs.ParseLocation(location)
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	var buf bytes.Buffer
	if err := m.Save(&buf, opts); err != nil {
		return err
	}
	if err := loc.Store().Write(ctx, loc.Key, buf.Bytes()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			nf := &notFound{path: loc.String(), err: err}
			klog.FromContext(ctx).Error(nf, "Couldn't open model for writing", "location", loc)
			return nf
		}
		return fmt.Errorf("save model: %w", err)
	}
	klog.FromContext(ctx).V(2).Info("Saved model", "location", loc, "layers", m.Len(), "format", opts.Format)
	return nil
}

// LoadLocation loads a model from a local path or gs:// URL. A missing
// object returns an error matching ErrModelNotFound and leaves the model
// unchanged.
func (m *Model) LoadLocation(ctx context.Context, location string) error {
	loc, err := blobs.ParseLocation(location)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	data, err := loc.Store().Read(ctx, loc.Key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			nf := &notFound{path: loc.String(), err: err}
			klog.FromContext(ctx).Error(nf, "Couldn't open model", "location", loc)
			return nf
		}
		return fmt.Errorf("load model: %w", err)
	}
	if err := m.Load(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%s: %w", loc, err)
	}
	return nil
}

// SaveFile is SaveLocation without a context.
func (m *Model) SaveFile(path string, opts serialization.Options) error {
	return m.SaveLocation(context.Background(), path, opts)
}

// LoadFile is LoadLocation without a context.
func (m *Model) LoadFile(path string) error {
	return m.LoadLocation(context.Background(), path)
}
