package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"espaform/internal/batch"
	"espaform/internal/config"
	"espaform/internal/ledger"
	"espaform/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("initialize logging: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// openLedger returns the conversion ledger when history recording is
// enabled, or nil when it is not. Callers own the returned store.
func (c *commandContext) openLedger() (*ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.Ledger.Enabled {
		return nil, nil
	}
	store, err := ledger.Open(cfg.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("open conversion ledger: %w", err)
	}
	return store, nil
}

func (c *commandContext) requireLedger() (*ledger.Store, error) {
	store, err := c.openLedger()
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("conversion ledger is disabled; enable [ledger] in the configuration to record history")
	}
	return store, nil
}

// newRunner builds a batch runner wired to the configured ledger. The
// returned store may be nil when the ledger is disabled; when it is not,
// the caller must close it after the runner finishes.
func (c *commandContext) newRunner(opts ...batch.Option) (*batch.Runner, *ledger.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	store, err := c.openLedger()
	if err != nil {
		return nil, nil, err
	}
	if store != nil {
		opts = append(opts, batch.WithLedger(store))
	}
	runner, err := batch.NewRunner(cfg, logger, opts...)
	if err != nil {
		closeStore(store)
		return nil, nil, err
	}
	return runner, store, nil
}

func closeStore(store *ledger.Store) {
	if store != nil {
		_ = store.Close()
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
