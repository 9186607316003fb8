// Package config holds the configuration of a single storage connection.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// StorageConfig holds configuration for a single storage connection.
type StorageConfig struct {
	Type       string `yaml:"type"`        // Type of storage ("local", "gcs", "minio").
	BucketName string `yaml:"bucket_name"` // Default bucket when a call passes none.

	// BaseDir is the root directory of the local adapter.
	BaseDir string `yaml:"base_dir"`

	// CredentialsFile is the service account key used by the gcs adapter. Empty means default credentials.
	CredentialsFile string `yaml:"credentials_file"`

	// Endpoint, AccessKey, SecretKey, UseSSL and Region configure the minio adapter.
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
}

// ResolveBucket returns bucket, or the configured default when bucket is empty.
func (c StorageConfig) ResolveBucket(bucket string) string {
	if bucket == "" {
		return c.BucketName
	}
	return bucket
}

// Decode reads the connection configured under name from the raw storage section.
func Decode(raw map[string]interface{}, name string) (StorageConfig, error) {
	var cfg StorageConfig
	named, ok := raw[name]
	if !ok {
		return cfg, fmt.Errorf("storage connection '%s' not found in configuration", name)
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, fmt.Errorf("failed to create decoder for storage config '%s': %w", name, err)
	}
	if err := decoder.Decode(named); err != nil {
		return cfg, fmt.Errorf("failed to decode storage config for '%s': %w", name, err)
	}
	return cfg, nil
}
