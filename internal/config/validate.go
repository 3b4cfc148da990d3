package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateConvert(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		return errors.New("paths.work_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateTools() error {
	if strings.TrimSpace(c.Tools.GDALTranslate) == "" {
		return errors.New("tools.gdal_translate must be set")
	}
	return ensurePositiveMap(map[string]int{
		"tools.timeout_seconds": c.Tools.TimeoutSeconds,
	})
}

func (c *Config) validateConvert() error {
	if c.Convert.HDFVersion == "" {
		return errors.New("convert.hdf_version must be set")
	}
	if c.Convert.HDFEOSVersion == "" {
		return errors.New("convert.hdfeos_version must be set")
	}
	if !strings.HasPrefix(c.Convert.ManifestExtension, ".") {
		return fmt.Errorf("convert.manifest_extension must begin with a dot, got %q", c.Convert.ManifestExtension)
	}
	return nil
}

func (c *Config) validateStaging() error {
	if !c.Staging.Enabled {
		return nil
	}
	if c.Staging.Bucket == "" {
		return errors.New("staging.bucket must be set when staging.enabled is true (or set ESPAFORM_S3_BUCKET)")
	}
	if c.Staging.Region == "" {
		return errors.New("staging.region must be set when staging.enabled is true")
	}
	return nil
}

func (c *Config) validateLedger() error {
	if c.Ledger.Enabled && strings.TrimSpace(c.Ledger.Path) == "" {
		return errors.New("ledger.path must be set when ledger.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
