// Package artifact renders compiled fragments into the persisted cache document and decodes it back.
package artifact

import (
	"bytes"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FormatVersion is the version written into every artifact.
const FormatVersion = "1"

const (
	header     = "# Code generated by facto. DO NOT EDIT.\n"
	yamlIndent = 2
)

// Document is the decoded form of a cache artifact.
type Document struct {
	Version   string            `yaml:"version"`
	Checksum  uint64            `yaml:"checksum"`
	Factories []domain.Fragment `yaml:"factories"`
}

// IDs returns the factory ids in artifact order.
func (d *Document) IDs() []string {
	ids := make([]string, len(d.Factories))
	for i, f := range d.Factories {
		ids[i] = f.ID
	}
	return ids
}

// Render turns fragments into one artifact. Output is byte-identical for
// identical input and preserves fragment order.
func Render(frags []domain.Fragment) ([]byte, error) {
	if err := validate(frags); err != nil {
		return nil, zerr.Wrap(err, domain.ErrArtifactEncodeFailed.Error())
	}

	doc := Document{
		Version:   FormatVersion,
		Checksum:  Checksum(frags),
		Factories: frags,
	}
	if doc.Factories == nil {
		doc.Factories = []domain.Fragment{}
	}

	var buf bytes.Buffer
	buf.WriteString(header)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(yamlIndent)
	if err := enc.Encode(&doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrArtifactEncodeFailed.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrArtifactEncodeFailed.Error())
	}

	return buf.Bytes(), nil
}

// Decode parses an artifact and checks its version, checksum and entries.
func Decode(data []byte) (*Document, error) {
	var doc Document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrArtifactDecodeFailed.Error())
	}

	if doc.Version != FormatVersion {
		return nil, zerr.With(domain.ErrArtifactVersionMismatch, "version", doc.Version)
	}

	if err := validate(doc.Factories); err != nil {
		return nil, zerr.Wrap(err, domain.ErrArtifactCorrupt.Error())
	}

	if sum := Checksum(doc.Factories); sum != doc.Checksum {
		err := zerr.With(domain.ErrArtifactCorrupt, "expected_checksum", doc.Checksum)
		return nil, zerr.With(err, "actual_checksum", sum)
	}

	return &doc, nil
}

// Checksum hashes the canonical encoding of frags. Every field is length
// prefixed so no two distinct fragment lists share an encoding.
func Checksum(frags []domain.Fragment) uint64 {
	d := xxhash.New()
	for _, f := range frags {
		writeField(d, f.ID)
		writeField(d, string(f.Kind))
		writeField(d, f.Symbol)
		writeField(d, f.Source)
		writeField(d, strconv.Itoa(len(f.Imports)))
		for _, imp := range f.Imports {
			writeField(d, imp.Name)
			writeField(d, imp.Path)
		}
	}
	return d.Sum64()
}

func writeField(d *xxhash.Digest, s string) {
	_, _ = d.WriteString(strconv.Itoa(len(s)))
	_, _ = d.WriteString(":")
	_, _ = d.WriteString(s)
}

func validate(frags []domain.Fragment) error {
	seen := make(map[string]struct{}, len(frags))
	for i, f := range frags {
		if f.ID == "" {
			return zerr.With(domain.ErrEmptyFactoryID, "index", i)
		}
		if _, ok := seen[f.ID]; ok {
			return zerr.With(domain.ErrDuplicateFactoryID, "factory_id", f.ID)
		}
		seen[f.ID] = struct{}{}

		if err := ValidateFragment(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFragment checks that f carries exactly the handle its kind requires.
func ValidateFragment(f domain.Fragment) error {
	switch {
	case !f.Kind.Valid():
		return zerr.With(zerr.With(domain.ErrInvalidHandle, "factory_id", f.ID), "kind", string(f.Kind))
	case f.Kind == domain.HandleSymbol && (f.Symbol == "" || f.Source != "" || len(f.Imports) > 0):
		return zerr.With(domain.ErrInvalidHandle, "factory_id", f.ID)
	case f.Kind == domain.HandleSource && (f.Source == "" || f.Symbol != ""):
		return zerr.With(domain.ErrInvalidHandle, "factory_id", f.ID)
	}
	for _, imp := range f.Imports {
		if imp.Path == "" {
			return zerr.With(domain.ErrInvalidHandle, "factory_id", f.ID)
		}
	}
	return nil
}
