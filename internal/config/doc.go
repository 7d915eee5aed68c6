// Package config provides centralized configuration management for the
// observatório service. It handles loading configuration from multiple sources,
// validation, and provides a type-safe API for accessing configuration values
// throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern OBS_<SECTION>_<FIELD>:
//
//	OBS_SERVER_PORT=8080
//	OBS_DATASET_DIR=/srv/observatorio
//	OBS_DATASET_MIN_DATE=2024-01-01
//	OBS_LOGGING_LEVEL=debug
//	OBS_FEATURES_SEARCH=false
//
// # Configuration File
//
// The file is taken from OBS_CONFIG when set, otherwise from config.yaml or
// configs/config.yaml in the working directory:
//
//	dataset:
//	  dir: data
//	  primary_file: base_observatorio_teresopolis_COMPLETA.csv
//	features:
//	  advanced_stats: false
//	analytics:
//	  status_catalog:
//	    "Aprovado (Votação Simbólica)": true
//	    "Rejeitado": false
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Testing
//
// For testing, use config.Default() to get a configuration with sensible
// defaults that does not require environment variables or files.
package config
