// Package loader reads workbook files: one table configuration together with
// the collections, attributes, documents and link instances it is laid over.
package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/leaptable/internal/columns"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// ErrInvalidWorkbook is returned when a workbook is structurally wrong.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// Format is a workbook serialization format.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Workbook is the content of one workbook file.
type Workbook struct {
	Table         string                      `json:"table"`
	Collections   []core.Collection           `json:"collections,omitempty"`
	LinkTypes     []core.LinkType             `json:"linkTypes,omitempty"`
	Attributes    map[string][]core.Attribute `json:"attributes,omitempty"`
	Documents     []core.Document             `json:"documents,omitempty"`
	LinkInstances []core.LinkInstance         `json:"linkInstances,omitempty"`
	Config        core.TableConfig            `json:"config"`

	// Path is the file the workbook was loaded from, if any.
	Path string `json:"-"`
}

// Load reads and parses the workbook at path.
func Load(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}
	wb, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	wb.Path = path
	return wb, nil
}

// LoadAll loads every path concurrently. The result keeps the order of paths;
// the first failure cancels the rest.
func LoadAll(ctx context.Context, paths []string) ([]*Workbook, error) {
	out := make([]*Workbook, len(paths))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, path := range paths {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			wb, err := Load(path)
			if err != nil {
				return err
			}
			out[i] = wb
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Parse decodes a workbook. Both formats go through the same generic
// decoding so field names and column tagging behave identically.
func Parse(data []byte, format Format) (*Workbook, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	var wb Workbook
	if err := decode(raw, &wb); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWorkbook, err)
	}
	if err := wb.Validate(); err != nil {
		return nil, err
	}
	return &wb, nil
}

// Marshal encodes the workbook in the given format.
func Marshal(wb *Workbook, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(wb, "", "  ")
	if err != nil {
		return nil, err
	}
	if format == FormatJSON {
		return append(data, '\n'), nil
	}

	// Re-encode through a generic value so YAML keeps the JSON field names
	// and column type tags.
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Validate checks the part alternation and table id.
func (w *Workbook) Validate() error {
	if w.Table == "" {
		return fmt.Errorf("%w: missing table id", ErrInvalidWorkbook)
	}
	for i, part := range w.Config.Parts {
		if i%2 == 0 && part.CollectionID == "" {
			return fmt.Errorf("%w: part %d must reference a collection", ErrInvalidWorkbook, i)
		}
		if i%2 == 1 && part.LinkTypeID == "" {
			return fmt.Errorf("%w: part %d must reference a link type", ErrInvalidWorkbook, i)
		}
	}
	return nil
}

// TableModel returns the configured table.
func (w *Workbook) TableModel() core.Table {
	return core.Table{ID: w.Table, Config: w.Config}
}

// DocumentsByID indexes the documents by id.
func (w *Workbook) DocumentsByID() map[string]core.Document {
	docs := make(map[string]core.Document, len(w.Documents))
	for _, doc := range w.Documents {
		docs[doc.ID] = doc
	}
	return docs
}

// AttributesFor returns the attributes of the collection or link type the
// part is bound to.
func (w *Workbook) AttributesFor(part core.Part) []core.Attribute {
	if part.CollectionID != "" {
		return w.Attributes[part.CollectionID]
	}
	return w.Attributes[part.LinkTypeID]
}

// Reconcile rebuilds every part's columns against the current attributes,
// keeping the existing layout where attributes still exist.
func (w *Workbook) Reconcile() {
	parts := make([]core.Part, len(w.Config.Parts))
	for i, part := range w.Config.Parts {
		part.Columns = columns.BuildFromAttributes(w.AttributesFor(part), nil, part.Columns)
		parts[i] = part
	}
	w.Config.Parts = parts
}

var columnsType = reflect.TypeOf(core.Columns(nil))

func decode(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		DecodeHook:  columnsHook,
		Result:      out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// columnsHook decodes the tagged column union.
func columnsHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != columnsType {
		return data, nil
	}
	if data == nil {
		return core.Columns(nil), nil
	}
	items, ok := data.([]any)
	if !ok {
		return nil, fmt.Errorf("columns must be a list, got %T", data)
	}

	out := make(core.Columns, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("column %d must be a mapping, got %T", i, item)
		}
		kind, _ := fields["type"].(string)
		rest := make(map[string]any, len(fields))
		for k, v := range fields {
			if k != "type" {
				rest[k] = v
			}
		}

		switch core.ColumnKind(kind) {
		case core.ColumnKindCompound, "":
			col := &core.CompoundColumn{}
			if err := decode(rest, col); err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			if col.AttributeIDs == nil {
				col.AttributeIDs = []string{}
			}
			out = append(out, col)
		case core.ColumnKindHidden:
			col := &core.HiddenColumn{}
			if err := decode(rest, col); err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			out = append(out, col)
		default:
			return nil, fmt.Errorf("column %d: unknown column type %q", i, kind)
		}
	}
	return out, nil
}

// Save writes the workbook to path in the format its extension implies. The
// file is replaced atomically.
func Save(wb *Workbook, path string) error {
	data, err := Marshal(wb, FormatFromPath(path))
	if err != nil {
		return fmt.Errorf("failed to encode workbook: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".leaptable-*")
	if err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// UpdateDocuments replaces documents that appear in docs, keeping file order.
func (w *Workbook) UpdateDocuments(docs map[string]core.Document) {
	for i, doc := range w.Documents {
		if updated, ok := docs[doc.ID]; ok {
			w.Documents[i] = updated
		}
	}
}
