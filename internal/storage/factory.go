package storage

import "strings"

// NewExportStore creates an ExportStore based on the configuration.
// Parameters:
//   - cfg: storage configuration including endpoint, credentials, and bucket.
//     An empty Type is detected from the endpoint.
//
// Returns:
//   - ExportStore: initialized storage client, or nil when exports are disabled.
//   - error: non-nil if the storage client cannot be created.
func NewExportStore(cfg *S3Config) (ExportStore, error) {
	if cfg == nil || cfg.Bucket == "" {
		return nil, nil
	}
	if cfg.Type == "" {
		cfg.Type = detectStorageType(cfg.Endpoint)
	}
	s, err := NewS3Storage(cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// detectStorageType guesses the provider from the endpoint host.
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case endpoint == "":
		return StorageTypeS3
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}
