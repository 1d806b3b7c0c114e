// Package config loads the facto.yaml project manifest.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/facto/internal/core/domain"
	"go.trai.ch/facto/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// SupportedVersion is the manifest version this loader understands.
const SupportedVersion = "1"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the manifest at path, or the nearest facto.yaml found by walking
// up from cwd when path is empty.
func (l *Loader) Load(cwd, path string) (*domain.Project, error) {
	configPath, err := findConfiguration(cwd, path)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := readAndUnmarshalYAML(configPath, &manifest); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}

	if manifest.Version != "" && manifest.Version != SupportedVersion {
		err := zerr.With(domain.ErrConfigParseFailed, "version", manifest.Version)
		return nil, zerr.With(err, "path", configPath)
	}

	root := filepath.Dir(configPath)
	project := &domain.Project{
		Root:       root,
		ConfigPath: configPath,
		Artifact:   resolveArtifact(root, manifest.Artifact),
		Mode:       domain.TrustExistingIfPresent,
		BestEffort: manifest.BestEffort,
	}
	if manifest.Cache != nil {
		project.Mode = domain.CacheMode(*manifest.Cache)
	}

	if project.Artifact == "" && manifest.Cache != nil && *manifest.Cache {
		l.Logger.Warn(fmt.Sprintf("'cache' in %s has no effect without an artifact path", domain.FactoFileName))
	}

	defs := make([]domain.Definition, 0, len(manifest.Factories))
	for i := range manifest.Factories {
		def, err := buildDefinition(root, &manifest.Factories[i])
		if err != nil {
			return nil, zerr.With(zerr.With(err, "index", i), "path", configPath)
		}
		defs = append(defs, def)
	}
	if err := domain.ValidateDefinitions(defs); err != nil {
		return nil, zerr.With(err, "path", configPath)
	}
	project.Definitions = defs

	return project, nil
}

// findConfiguration resolves an explicit path against cwd, or walks up from
// cwd looking for facto.yaml.
func findConfiguration(cwd, path string) (string, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		return filepath.Clean(path), nil
	}

	currentDir, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigNotFound.Error()), "cwd", cwd)
	}

	for {
		candidate := filepath.Join(currentDir, domain.FactoFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is chosen by the user
	data, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

func resolveArtifact(root string, artifact *string) string {
	if artifact == nil {
		return filepath.Join(root, domain.DefaultArtifactPath())
	}
	if *artifact == "" {
		return ""
	}
	if filepath.IsAbs(*artifact) {
		return filepath.Clean(*artifact)
	}
	return filepath.Join(root, *artifact)
}

// buildDefinition turns one manifest entry into a definition whose entry only
// describes where the factory lives.
func buildDefinition(root string, dto *FactoryDTO) (domain.Definition, error) {
	invalid := func(reason string) error {
		return zerr.With(zerr.With(domain.ErrInvalidManifestEntry, "factory_id", dto.ID), "reason", reason)
	}

	set := 0
	for _, ok := range []bool{dto.Symbol != "", dto.Static != nil, dto.Closure != nil, dto.Bound != nil} {
		if ok {
			set++
		}
	}
	if dto.ID == "" {
		return domain.Definition{}, invalid("missing id")
	}
	if set != 1 {
		return domain.Definition{}, invalid("exactly one of symbol, static, closure or bound is required")
	}

	var entry domain.Entry
	switch {
	case dto.Symbol != "":
		entry = domain.Named(dto.Symbol, nil)
	case dto.Static != nil:
		if dto.Static.Type == "" || dto.Static.Method == "" {
			return domain.Definition{}, invalid("static requires type and method")
		}
		entry = domain.Static(dto.Static.Type, dto.Static.Method, nil)
	case dto.Closure != nil:
		if dto.Closure.File == "" || dto.Closure.Line <= 0 {
			return domain.Definition{}, invalid("closure requires file and a positive line")
		}
		file := dto.Closure.File
		if !filepath.IsAbs(file) {
			file = filepath.Join(root, file)
		}
		entry = domain.Closure{Location: domain.SourceLocation{File: file, Line: dto.Closure.Line}}
	case dto.Bound != nil:
		entry = domain.Bound(nil, dto.Bound.Receiver+"."+dto.Bound.Method, nil)
	}

	return domain.Definition{ID: dto.ID, Entry: entry}, nil
}
