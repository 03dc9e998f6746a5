// SPDX-License-Identifier: MPL-2.0

package snapshot

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/invowk/varmerge/pkg/metadata"
	"github.com/invowk/varmerge/pkg/namespace"

	"github.com/fxamacker/cbor/v2"
	"github.com/zeebo/blake3"
)

// Version is the document layout written by Encode.
const Version = 1

var (
	// ErrUnsupportedVersion is returned when decoding a document of another layout.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	encMode cbor.EncMode
	decMode cbor.DecMode
)

type (
	// Document is the serialized form of a namespace.
	Document struct {
		Version      int     `cbor:"version"`
		Label        string  `cbor:"label"`
		Fields       []Var   `cbor:"fields"`
		SparseFields []Var   `cbor:"sparse_fields"`
		Swarms       []Swarm `cbor:"swarms"`
	}

	// Var is one variable. Sparse variants appear once per id.
	Var struct {
		Name       string   `cbor:"name"`
		Flags      []string `cbor:"flags"`
		Dependency string   `cbor:"dependency"`
		Shape      []int    `cbor:"shape,omitempty"`
		SparseID   int      `cbor:"sparse_id"`
		Associated string   `cbor:"associated,omitempty"`
	}

	// Swarm is a swarm together with its values.
	Swarm struct {
		Var
		Values []Var `cbor:"values"`
	}
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("snapshot: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("snapshot: CBOR decoder initialization failed: " + err.Error())
	}
}

// FromNamespace captures ns as a Document.
func FromNamespace(ns *namespace.Namespace) Document {
	doc := Document{Version: Version, Label: ns.Label()}

	fields := ns.Fields()
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		doc.Fields = append(doc.Fields, newVar(name, fields[name]))
	}

	sparse := ns.SparseFields()
	for _, name := range slices.Sorted(maps.Keys(sparse)) {
		for _, m := range sparse[name] {
			doc.SparseFields = append(doc.SparseFields, newVar(name, m))
		}
	}

	swarms := ns.Swarms()
	for _, name := range slices.Sorted(maps.Keys(swarms)) {
		s := Swarm{Var: newVar(name, swarms[name])}
		values := ns.SwarmValues(name)
		for _, value := range slices.Sorted(maps.Keys(values)) {
			s.Values = append(s.Values, newVar(value, values[value]))
		}
		doc.Swarms = append(doc.Swarms, s)
	}

	return doc
}

// Namespace rebuilds the namespace described by d.
func (d Document) Namespace() (*namespace.Namespace, error) {
	if d.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}

	ns := namespace.New(d.Label)
	for _, v := range slices.Concat(d.Fields, d.SparseFields) {
		m, err := v.metadata()
		if err != nil {
			return nil, err
		}
		if _, err := ns.AddField(v.Name, m); err != nil {
			return nil, fmt.Errorf("field %s: %w", v.Name, err)
		}
	}

	for _, s := range d.Swarms {
		m, err := s.metadata()
		if err != nil {
			return nil, err
		}
		ns.AddSwarm(s.Name, m)
		for _, v := range s.Values {
			vm, err := v.metadata()
			if err != nil {
				return nil, err
			}
			if _, err := ns.AddSwarmValue(v.Name, s.Name, vm); err != nil {
				return nil, fmt.Errorf("swarm %s: %w", s.Name, err)
			}
		}
	}

	return ns, nil
}

// Encode returns the deterministic CBOR encoding of ns.
func Encode(ns *namespace.Namespace) ([]byte, error) {
	return encMode.Marshal(FromNamespace(ns))
}

// Write encodes ns to w.
func Write(w io.Writer, ns *namespace.Namespace) error {
	return encMode.NewEncoder(w).Encode(FromNamespace(ns))
}

// Decode parses a document produced by Encode.
func Decode(data []byte) (*namespace.Namespace, error) {
	var doc Document
	if err := decMode.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return doc.Namespace()
}

// Fingerprint returns the hex BLAKE3-256 digest of the encoding of ns.
func Fingerprint(ns *namespace.Namespace) (string, error) {
	data, err := Encode(ns)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func newVar(name string, m metadata.Metadata) Var {
	return Var{
		Name:       name,
		Flags:      m.Flags().Names(),
		Dependency: m.Dependency().String(),
		Shape:      m.Shape(),
		SparseID:   m.SparseID(),
		Associated: m.Associated(),
	}
}

func (v Var) metadata() (metadata.Metadata, error) {
	flags, err := metadata.ParseFlags(v.Flags)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("variable %s: %w", v.Name, err)
	}
	dep, err := metadata.ParseDependency(v.Dependency)
	if err != nil {
		return metadata.Metadata{}, fmt.Errorf("variable %s: %w", v.Name, err)
	}

	opts := []metadata.Option{
		metadata.WithDependency(dep),
		metadata.WithShape(v.Shape...),
		metadata.WithAssociation(v.Associated),
	}
	if flags.Has(metadata.Sparse) {
		opts = append(opts, metadata.WithSparseID(v.SparseID))
	}
	return metadata.New(flags, opts...), nil
}
