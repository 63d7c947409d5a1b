// Package config loads CardCommand settings from the environment and an optional .env file.
//
// Defaults come from the `default` struct tags of each section and are registered
// with Viper by reflection, so every key can be overridden by an environment
// variable named after its path (catalog.max_sets becomes CATALOG_MAX_SETS).
//
// # Configuration Structure
//
//   - Server: HTTP port, API key and timeouts
//   - Upstream: backend base URL, token, rate limit and retries
//   - Catalog: the catalog data layer flag and fetch limits
//   - Cache: query result cache driver and TTL
//   - Log: level and format
//   - Database: optional MySQL release history
//   - Storage: optional S3/MinIO release archive
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Catalog.Enabled)
package config
