package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/fsutil"
	"github.com/vk/nodesmith/internal/schema"
)

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileConfig is the top-level decode target for a single .hcl file. Manifest
// and graph blocks may share a file or live in separate trees; the loader
// does not care.
type fileConfig struct {
	NodeTypes   []*schema.NodeTypeDefinition `hcl:"node_type,block"`
	Nodes       []*schema.Node               `hcl:"node,block"`
	Connections []*schema.Connection         `hcl:"connect,block"`
	Body        hcl.Body                     `hcl:",remain"`
}

// Load reads every .hcl file under the given paths, decodes it, and
// translates the result into the format-agnostic model.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)

	model := &config.Model{
		NodeTypes: make(map[string]*config.NodeTypeDefinition),
		Graph:     &config.Graph{},
	}

	parser := hclparse.NewParser()

	for _, path := range paths {
		filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan config path %s: %w", path, err)
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl files found in config path.", "path", path)
			continue
		}

		for _, filePath := range filePaths {
			hclFile, diags := parser.ParseHCLFile(filePath)
			if diags.HasErrors() {
				return nil, nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
			}

			var cfg fileConfig
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &cfg); diags.HasErrors() {
				return nil, nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
			}

			if err := l.mergeFile(ctx, model, &cfg, filePath); err != nil {
				return nil, nil, err
			}
			logger.Debug("Loaded definitions from HCL file.", "file", filePath)
		}
	}

	logger.Debug("Configuration loaded and translated into unified model.",
		"node_types", len(model.NodeTypes),
		"nodes", len(model.Graph.Nodes),
		"connections", len(model.Graph.Connections),
	)
	return model, NewConverter(), nil
}

// mergeFile translates one decoded file into the model, rejecting duplicate
// node type keys across files.
func (l *Loader) mergeFile(ctx context.Context, model *config.Model, cfg *fileConfig, filePath string) error {
	for _, nt := range cfg.NodeTypes {
		def, err := l.translateNodeType(ctx, nt)
		if err != nil {
			return fmt.Errorf("in %s: %w", filePath, err)
		}
		key := def.RegistrationKey()
		if _, exists := model.NodeTypes[key]; exists {
			return fmt.Errorf("in %s: duplicate node type %q", filePath, key)
		}
		model.NodeTypes[key] = def
	}

	for _, n := range cfg.Nodes {
		model.Graph.Nodes = append(model.Graph.Nodes, l.translateNode(n))
	}
	for _, c := range cfg.Connections {
		model.Graph.Connections = append(model.Graph.Connections, &config.Connection{
			From: c.From,
			To:   c.To,
		})
	}
	return nil
}
