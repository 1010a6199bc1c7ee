// Package snapshot reads the structural model of one program version from a
// JSON or YAML document and builds it into a types.Group.
package snapshot

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/remap/internal/debug"
	remaperrors "github.com/standardbeagle/remap/internal/errors"
	"github.com/standardbeagle/remap/internal/types"
)

// Format names a snapshot encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported snapshot extension %q", filepath.Ext(path))
}

// Snapshot is the document root
type Snapshot struct {
	Name    string        `json:"name" yaml:"name"`
	Classes []ClassRecord `json:"classes" yaml:"classes"`
}

type ClassRecord struct {
	Name       string         `json:"name" yaml:"name"`
	Super      string         `json:"super,omitempty" yaml:"super,omitempty"`
	Interfaces []string       `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	Fields     []FieldRecord  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Methods    []MethodRecord `json:"methods,omitempty" yaml:"methods,omitempty"`
}

type FieldRecord struct {
	Name   string `json:"name" yaml:"name"`
	Desc   string `json:"desc" yaml:"desc"`
	Static bool   `json:"static,omitempty" yaml:"static,omitempty"`
}

type MethodRecord struct {
	Name   string       `json:"name" yaml:"name"`
	Desc   string       `json:"desc" yaml:"desc"`
	Static bool         `json:"static,omitempty" yaml:"static,omitempty"`
	Insns  []InsnRecord `json:"insns,omitempty" yaml:"insns,omitempty"`
}

// LoadFile reads and builds the snapshot at path for the given side
func LoadFile(path string, side types.Side) (*types.Group, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, remaperrors.NewLoadError("open", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, remaperrors.NewLoadError("open", path, err)
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, headerSize)
	header, err := br.Peek(headerSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, remaperrors.NewLoadError("open", path, err)
	}
	if err := validateHeader(header, format); err != nil {
		return nil, remaperrors.NewLoadError("validate", path, err)
	}

	snap, err := Decode(br, format)
	if err != nil {
		return nil, remaperrors.NewLoadError("decode", path, err)
	}
	if snap.Name == "" {
		snap.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	g, err := snap.Build(side)
	if err != nil {
		return nil, remaperrors.NewLoadError("build", path, err)
	}
	debug.LogLoad("%s: %d classes, %d entities (side %s)\n", path, len(snap.Classes), g.Len(), side)
	return g, nil
}

// Load decodes a snapshot from r and builds it for the given side
func Load(r io.Reader, format Format, side types.Side) (*types.Group, error) {
	snap, err := Decode(r, format)
	if err != nil {
		return nil, remaperrors.NewLoadError("decode", "", err)
	}
	g, err := snap.Build(side)
	if err != nil {
		return nil, remaperrors.NewLoadError("build", "", err)
	}
	return g, nil
}

// Decode parses a snapshot document. Unknown keys are rejected so that typos
// in hand-written snapshots do not silently drop data.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	var snap Snapshot
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&snap); err != nil {
			return nil, err
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&snap); err != nil && err != io.EOF {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	return &snap, nil
}

// Build turns the records into a linked group. Member errors are collected so
// one pass reports every broken record.
func (s *Snapshot) Build(side types.Side) (*types.Group, error) {
	b := types.NewGroupBuilder(side, s.Name)
	var errs []error

	for _, cr := range s.Classes {
		if cr.Name == "" {
			errs = append(errs, remaperrors.NewModelError("class", "missing name"))
			continue
		}
		c := b.AddClass(cr.Name, cr.Super, cr.Interfaces...)

		for _, fr := range cr.Fields {
			if _, err := b.AddField(c, fr.Name, fr.Desc, fr.Static); err != nil {
				errs = append(errs, err)
			}
		}
		for _, mr := range cr.Methods {
			insns, err := convertInsns(mr.Insns)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.%s%s: %w", cr.Name, mr.Name, mr.Desc, err))
				continue
			}
			if _, err := b.AddMethod(c, mr.Name, mr.Desc, mr.Static, insns); err != nil {
				errs = append(errs, err)
			}
		}
	}

	g, err := b.Build()
	if err != nil {
		errs = append(errs, err)
	}
	if err := remaperrors.NewMultiError(errs).ErrOrNil(); err != nil {
		return nil, err
	}
	return g, nil
}
