package config

// ApplyDefaults fills unset fields with their defaults.  Explicitly set
// values are never overwritten.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if len(cfg.Logging.OutputPaths) == 0 {
		cfg.Logging.OutputPaths = []string{"stderr"}
	}

	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}

	for name, db := range cfg.Databases {
		if db.Postgres.Port == 0 {
			db.Postgres.Port = 5432
		}
		cfg.Databases[name] = db
	}
}
