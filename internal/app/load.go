package app

import (
	"context"
	"fmt"
	"os"

	"github.com/vk/diconfig/internal/ctxlog"
	"github.com/vk/diconfig/internal/expr"
	"github.com/vk/diconfig/internal/fsutil"
	"github.com/vk/diconfig/internal/merge"
	"github.com/vk/diconfig/internal/node"
)

// Load reads every configuration fragment under path, resolves its call
// expressions, and merges the fragments left to right into one normalized
// tree. Fragment order is the sorted file order, so later files override
// earlier ones.
func (a *App) Load(ctx context.Context, path string) (*node.Mapping, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindConfigFiles(path, a.adapter.Extensions()...)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No configuration files found in path.", "path", path)
		return &node.Mapping{}, nil
	}
	logger.Debug("Found configuration fragments.", "files", files)

	var combined node.Node = &node.Mapping{}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		raw, err := a.adapter.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if node.IsNull(raw) {
			continue
		}
		resolved, err := expr.Resolve(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
		if _, ok := resolved.(*node.Mapping); !ok {
			return nil, fmt.Errorf("%s: the top level of a configuration document must be a mapping", file)
		}
		combined = merge.Merge(combined, resolved)
		logger.Debug("Fragment merged.", "file", file)
	}

	m, ok := combined.(*node.Mapping)
	if !ok {
		return nil, fmt.Errorf("configuration did not combine into a mapping")
	}
	return m, nil
}

// Apply feeds a loaded tree into the registry: the parameters section
// becomes container parameters, the services section goes through the
// registration pipeline. Unknown top-level sections are preserved in the
// tree but not interpreted.
func (a *App) Apply(ctx context.Context, tree *node.Mapping) error {
	if params, ok := tree.Get("parameters"); ok {
		m, isMap := node.MappingOf(params)
		if !isMap {
			return node.Shapef("parameters", "the parameters section must be a map")
		}
		for _, e := range m.Entries {
			a.registry.SetParameter(e.Key, e.Value)
		}
	}

	if services, ok := tree.Get("services"); ok && !node.IsNull(services) {
		if err := a.loader.LoadDefinitions(ctx, services); err != nil {
			return err
		}
	}
	return nil
}
