package cli

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	"github.com/mrz1836/gatekeeper/internal/cache"
	"github.com/mrz1836/gatekeeper/internal/config"
	"github.com/mrz1836/gatekeeper/internal/dispatch"
	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/engine"
	"github.com/mrz1836/gatekeeper/internal/errors"
	"github.com/mrz1836/gatekeeper/internal/governor"
	"github.com/mrz1836/gatekeeper/internal/logging"
	"github.com/mrz1836/gatekeeper/internal/profile"
	"github.com/mrz1836/gatekeeper/internal/registry"
)

// runtime bundles the wired framework components for one CLI
// invocation. It is built once per command from the loaded
// configuration and torn down by Close.
type runtime struct {
	cfg         *config.Config
	projectPath string
	registry    *registry.Registry
	governor    *governor.Governor
	cache       *cache.Cache
	engine      *engine.Engine
	profiles    *profile.Manager
	dispatcher  *dispatch.Dispatcher

	cancelSweeper context.CancelFunc
}

// newRuntime loads configuration and assembles the full dispatch
// pipeline: registry, governor, cache, engine, profile manager and
// dispatcher. A missing registry file is not an error; the runtime
// starts with an empty registry and every dispatch skips.
func newRuntime(ctx context.Context, flags *GlobalFlags) (*runtime, error) {
	logger := GetLogger()

	projectPath := flags.Project
	if projectPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to determine working directory")
		}
		projectPath = wd
	}

	cfg, err := config.Load(ctx, projectPath)
	if err != nil {
		return nil, err
	}

	reg, err := buildRegistry(cfg, projectPath, logger)
	if err != nil {
		return nil, err
	}

	gov := governor.New(ctx,
		governor.WithThresholds(governor.Thresholds{
			Warn:                   cfg.Governance.WarnThreshold,
			Disable:                cfg.Governance.DisableThreshold,
			MaxConsecutiveFailures: cfg.Governance.MaxConsecutiveFailures,
		}),
		governor.WithWindow(cfg.Governance.Window),
		governor.WithStore(governor.NewFileStore(config.StateDir(projectPath))),
		governor.WithLogger(logger),
		governor.WithListener(func(ev governor.Event) {
			logger.Warn().
				Str("hook_id", ev.HookID).
				Str("state", string(ev.State)).
				Str("reason", ev.Reason).
				Msg("governance event")
		}),
	)

	resultCache := cache.New(cache.WithLogger(logger))
	sweeperCtx, cancelSweeper := context.WithCancel(ctx)
	if cfg.Cache.SweepInterval > 0 {
		resultCache.StartSweeper(sweeperCtx, cfg.Cache.SweepInterval)
	}

	eng := engine.New(resultCache, gov, engine.WithLogger(logger))
	profiles := profile.New(reg, gov, mergeProfiles(cfg), logger)
	dispatcher := dispatch.New(profiles, reg, eng,
		dispatch.WithLogger(logger),
		dispatch.WithMaxConcurrent(cfg.Dispatch.MaxConcurrent),
	)

	return &runtime{
		cfg:           cfg,
		projectPath:   projectPath,
		registry:      reg,
		governor:      gov,
		cache:         resultCache,
		engine:        eng,
		profiles:      profiles,
		dispatcher:    dispatcher,
		cancelSweeper: cancelSweeper,
	}, nil
}

// Close stops background work owned by the runtime.
func (rt *runtime) Close() {
	if rt.cancelSweeper != nil {
		rt.cancelSweeper()
	}
}

// buildRegistry loads hook definitions from the configured registry
// file and binds the command handler to each. The registry is frozen
// before use so later mutation attempts fail loudly.
func buildRegistry(cfg *config.Config, projectPath string, logger zerolog.Logger) (*registry.Registry, error) {
	reg := registry.New()

	path := config.RegistryPath(cfg, projectPath)
	defs, err := registry.LoadDefinitionsFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			logger.Debug().Str("path", path).Msg("no registry file, starting empty")
			reg.Freeze()
			return reg, nil
		}
		return nil, err
	}

	handler := newCommandHandler(logger)
	for _, def := range defs {
		if err := reg.Register(def, handler); err != nil {
			return nil, err
		}
		logger.Debug().
			Str("hook_id", def.ID).
			Interface("config", logging.RedactConfig(def.Config)).
			Msg("hook registered")
	}
	reg.Freeze()

	logger.Debug().Int("hooks", reg.Len()).Str("path", path).Msg("registry loaded")
	return reg, nil
}

// mergeProfiles layers custom profiles from configuration over the
// built-in minimal, standard and advanced profiles. A custom profile
// with a built-in name replaces the built-in.
func mergeProfiles(cfg *config.Config) map[string]domain.Profile {
	profiles := profile.Builtins()
	for name, pc := range cfg.Profiles {
		p := domain.Profile{
			Name:      name,
			Budget:    pc.Budget,
			AllowList: pc.Hooks,
		}
		for _, c := range pc.Categories {
			p.Categories = append(p.Categories, domain.Category(c))
		}
		profiles[name] = p
	}
	return profiles
}
