package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeConvert()
	c.normalizeStaging()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	// OutputDir stays empty when unset: outputs land next to the input scene.
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
			return fmt.Errorf("paths.output_dir: %w", err)
		}
	} else {
		c.Paths.OutputDir = ""
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.GDALTranslate = strings.TrimSpace(c.Tools.GDALTranslate)
	if c.Tools.GDALTranslate == "" {
		c.Tools.GDALTranslate = defaultGDALTranslate
	}
	if c.Tools.TimeoutSeconds <= 0 {
		c.Tools.TimeoutSeconds = defaultToolTimeout
	}
}

func (c *Config) normalizeConvert() {
	c.Convert.HDFVersion = strings.TrimSpace(c.Convert.HDFVersion)
	if c.Convert.HDFVersion == "" {
		c.Convert.HDFVersion = defaultHDFVersion
	}
	c.Convert.HDFEOSVersion = strings.TrimSpace(c.Convert.HDFEOSVersion)
	if c.Convert.HDFEOSVersion == "" {
		c.Convert.HDFEOSVersion = defaultHDFEOSVersion
	}
	c.Convert.ManifestExtension = strings.TrimSpace(c.Convert.ManifestExtension)
	if c.Convert.ManifestExtension == "" {
		c.Convert.ManifestExtension = defaultManifestExtension
	}
	if !strings.HasPrefix(c.Convert.ManifestExtension, ".") {
		c.Convert.ManifestExtension = "." + c.Convert.ManifestExtension
	}
}

func (c *Config) normalizeStaging() {
	if value, ok := os.LookupEnv("ESPAFORM_S3_BUCKET"); ok && strings.TrimSpace(value) != "" {
		c.Staging.Bucket = value
	}
	c.Staging.Bucket = strings.TrimSpace(c.Staging.Bucket)
	c.Staging.Prefix = strings.Trim(strings.TrimSpace(c.Staging.Prefix), "/")
	c.Staging.Region = strings.TrimSpace(c.Staging.Region)
	if c.Staging.Region == "" {
		c.Staging.Region = defaultStagingRegion
	}
}

func (c *Config) normalizeLedger() error {
	var err error
	if strings.TrimSpace(c.Ledger.Path) == "" {
		c.Ledger.Path = defaultLedgerPath
	}
	if c.Ledger.Path, err = expandPath(c.Ledger.Path); err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
