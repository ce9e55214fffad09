package config

// StoresConfig selects the backing implementation for each store.
// "memory" keeps everything in-process (dev and tests); "postgres"/"redis"
// are the production backends.
type StoresConfig struct {
	UserStoreMode string // "memory" or "postgres"
	CacheMode     string // "memory" or "redis"
}

func loadStoresConfig() StoresConfig {
	return StoresConfig{
		UserStoreMode: getEnv("USERSTORE_MODE", "postgres"),
		CacheMode:     getEnv("CACHE_MODE", "redis"),
	}
}
