package main

import (
	"context"
	stderrors "errors"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/routedefs/internal/config"
	"github.com/vango-dev/routedefs/internal/errors"
	"github.com/vango-dev/routedefs/pkg/manifest"
	"github.com/vango-dev/routedefs/pkg/routedef"
	"github.com/vango-dev/routedefs/pkg/routekind"
)

// loadConfig reads routedefs.json and applies command-line overrides.
// Without a config file the defaults are used.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.LoadFromWorkingDir()
		if stderrors.Is(err, errors.ErrConfigNotFound) {
			cfg, err = config.New(), nil
		}
	}
	if err != nil {
		return nil, err
	}

	if flags.distDir != "" {
		cfg.DistDir = flags.distDir
	}
	if len(flags.kinds) > 0 {
		cfg.Kinds = flags.kinds
	}
	if flags.source != "" {
		cfg.Source = flags.source
	}
	if flags.bucket != "" {
		cfg.S3.Bucket = flags.bucket
		if flags.source == "" {
			cfg.Source = config.SourceS3
		}
	}
	if flags.prefix != "" {
		cfg.S3.Prefix = flags.prefix
	}
	if flags.region != "" {
		cfg.S3.Region = flags.region
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLoader returns the manifest loader selected by cfg.Source.
func newLoader(ctx context.Context, cfg *config.Config) (manifest.Loader, error) {
	if cfg.Source != config.SourceS3 {
		return manifest.NewFileLoader(cfg.DistPath()), nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.S3.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.S3.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.New("R101").Wrap(err).
			WithDetail("Failed to load AWS configuration").
			WithSuggestion("Check AWS_REGION and your credentials")
	}
	return manifest.NewS3Loader(s3.NewFromConfig(awsCfg), cfg.S3.Bucket, cfg.S3.Prefix), nil
}

// newRegistry builds one provider per enabled kind, reading the manifest
// keys configured in cfg.
func newRegistry(cfg *config.Config, loader manifest.Loader, opts ...routedef.Option) (*routedef.Registry, error) {
	kinds, err := cfg.RouteKinds()
	if err != nil {
		return nil, err
	}

	providers := make([]*routedef.Provider, 0, len(kinds))
	for _, kind := range kinds {
		caps, ok := routedef.CapabilitiesFor(kind, cfg.DistPath(), cfg.PageExtensions, cfg.BundleExtensions)
		if !ok {
			return nil, errors.New("R006").WithDetailf("no provider for %s", kind)
		}
		caps.ManifestKey = cfg.ManifestKey(kind)
		providers = append(providers, routedef.NewProvider(caps, loader, opts...))
	}
	return routedef.NewRegistry(providers...)
}

// setup loads the configuration and wires loader and registry.
func setup(ctx context.Context, flags *globalFlags, logger *slog.Logger, opts ...routedef.Option) (*config.Config, manifest.Loader, *routedef.Registry, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, nil, nil, err
	}

	loader, err := newLoader(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	opts = append([]routedef.Option{routedef.WithLogger(logger)}, opts...)
	registry, err := newRegistry(cfg, loader, opts...)
	if err != nil {
		return nil, nil, nil, err
	}

	logger.Debug("configuration loaded",
		"config", cfg.Path(),
		"dist", cfg.DistPath(),
		"source", cfg.Source,
		"kinds", len(registry.Kinds()),
	)
	return cfg, loader, registry, nil
}

// orderedSets returns the sets of kinds in the given order.
func orderedSets(kinds []routekind.Kind, sets map[routekind.Kind]*routedef.Set) []*routedef.Set {
	out := make([]*routedef.Set, 0, len(kinds))
	for _, kind := range kinds {
		if set, ok := sets[kind]; ok {
			out = append(out, set)
		}
	}
	return out
}
