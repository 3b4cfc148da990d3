package config

const (
	defaultWorkDir           = "~/.local/share/espaform/work"
	defaultLogDir            = "~/.local/share/espaform/logs"
	defaultGDALTranslate     = "gdal_translate"
	defaultToolTimeout       = 600
	defaultHDFVersion        = "4.2.16"
	defaultHDFEOSVersion     = "2.20"
	defaultManifestExtension = ".hdf"
	defaultStagingRegion     = "us-west-2"
	defaultLedgerPath        = "~/.local/share/espaform/espaform.db"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Tools: Tools{
			GDALTranslate:  defaultGDALTranslate,
			TimeoutSeconds: defaultToolTimeout,
		},
		Convert: Convert{
			HDFVersion:        defaultHDFVersion,
			HDFEOSVersion:     defaultHDFEOSVersion,
			ManifestExtension: defaultManifestExtension,
		},
		Staging: Staging{
			Region: defaultStagingRegion,
		},
		Ledger: Ledger{
			Enabled: true,
			Path:    defaultLedgerPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
