package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagOutput     = flag.String("output", "", "Output format: jscad, glb or yaml")
	flagMetaData   = flag.Bool("metadata", false, "Prepend the metadata comment block")
	flagNoMetaData = flag.Bool("no-metadata", false, "Omit the metadata comment block")
	flagEncoding   = flag.String("encoding", "", "Input text encoding")
	flagMaterials  = flag.String("mtl", "", "Material library to use when the OBJ names none")
	flagAddr       = flag.String("addr", "", "Listen address for serve")
	flagLogFile    = flag.String("log-file", "", "Write logs to this file as well")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments left after ParseFlags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagOutput != "" {
		cfg.Convert.Output = *flagOutput
	}
	if *flagMetaData {
		cfg.Convert.AddMetaData = true
	}
	if *flagNoMetaData {
		cfg.Convert.AddMetaData = false
	}
	if *flagEncoding != "" {
		cfg.Convert.Encoding = *flagEncoding
	}
	if *flagMaterials != "" {
		cfg.Convert.Materials = *flagMaterials
	}
	if *flagAddr != "" {
		cfg.Server.Addr = *flagAddr
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
