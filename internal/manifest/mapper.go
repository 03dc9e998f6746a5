// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"

	"github.com/invowk/varmerge/pkg/metadata"
	"github.com/invowk/varmerge/pkg/varpkg"
)

var (
	errMissingID       = errors.New("sparse variant needs an id")
	errNegativeID      = errors.New("sparse id must not be negative")
	errUnexpectedID    = errors.New("id is only valid on sparse_fields entries")
	errSparseFlag      = errors.New(`the "sparse" flag is implied by sparse_fields and not allowed elsewhere`)
	errValueDependency = errors.New("swarm values take the dependency of their swarm")
	errBadShape        = errors.New("shape entries must be positive")
)

// ToPackage maps a decoded manifest to a package. path is used in error messages.
// Every declaration is checked; the first problem is returned.
func ToPackage(m *Manifest, path string) (*varpkg.Package, error) {
	pkg, err := varpkg.New(m.Package)
	if err != nil {
		return nil, &InvalidManifestError{Path: path, Field: "package", Err: err}
	}

	fail := func(field string, err error) error {
		return &InvalidManifestError{Path: path, Field: field, Err: err}
	}

	for i, v := range m.Fields {
		field := fmt.Sprintf("fields[%d]", i)
		if v.ID != nil {
			return nil, fail(field+".id", errUnexpectedID)
		}
		md, err := v.metadata(true)
		if err != nil {
			return nil, fail(field, err)
		}
		if err := pkg.AddField(v.Name, md); err != nil {
			return nil, fail(field, err)
		}
	}

	for i, v := range m.SparseFields {
		field := fmt.Sprintf("sparse_fields[%d]", i)
		switch {
		case v.ID == nil:
			return nil, fail(field+".id", errMissingID)
		case *v.ID < 0:
			return nil, fail(field+".id", errNegativeID)
		}
		md, err := v.metadata(true, metadata.WithSparseID(*v.ID))
		if err != nil {
			return nil, fail(field, err)
		}
		if err := pkg.AddField(v.Name, md); err != nil {
			return nil, fail(field, err)
		}
	}

	for i, s := range m.Swarms {
		field := fmt.Sprintf("swarms[%d]", i)
		md, err := Variable{Name: s.Name, Flags: s.Flags, Dependency: s.Dependency, Shape: s.Shape}.metadata(true)
		if err != nil {
			return nil, fail(field, err)
		}
		if err := pkg.AddSwarm(s.Name, md); err != nil {
			return nil, fail(field, err)
		}
		for j, v := range s.Values {
			vfield := fmt.Sprintf("%s.values[%d]", field, j)
			switch {
			case v.ID != nil:
				return nil, fail(vfield+".id", errUnexpectedID)
			case v.Dependency != "":
				return nil, fail(vfield+".dependency", errValueDependency)
			}
			vmd, err := v.metadata(false)
			if err != nil {
				return nil, fail(vfield, err)
			}
			if err := pkg.AddSwarmValue(v.Name, s.Name, vmd); err != nil {
				return nil, fail(vfield, err)
			}
		}
	}

	return pkg, nil
}

// metadata builds the metadata of a declaration. The dependency is parsed only
// when withDependency is set.
func (v Variable) metadata(withDependency bool, extra ...metadata.Option) (metadata.Metadata, error) {
	flags, err := metadata.ParseFlags(v.Flags)
	if err != nil {
		return metadata.Metadata{}, err
	}
	if flags.Has(metadata.Sparse) {
		return metadata.Metadata{}, errSparseFlag
	}
	for _, n := range v.Shape {
		if n <= 0 {
			return metadata.Metadata{}, errBadShape
		}
	}

	opts := make([]metadata.Option, 0, len(extra)+3)
	if withDependency {
		dep, err := metadata.ParseDependency(v.Dependency)
		if err != nil {
			return metadata.Metadata{}, err
		}
		opts = append(opts, metadata.WithDependency(dep))
	}
	if len(v.Shape) > 0 {
		opts = append(opts, metadata.WithShape(v.Shape...))
	}
	if v.Associated != "" {
		opts = append(opts, metadata.WithAssociation(v.Associated))
	}
	opts = append(opts, extra...)
	return metadata.New(flags, opts...), nil
}
