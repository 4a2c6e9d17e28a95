package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pgload/pgload/pkg/pgload"
	"gopkg.in/yaml.v3"
)

// JobConfig is the YAML form of an Excel load job.
type JobConfig struct {
	ConnectionFile  string `yaml:"connection_file,omitempty"`
	SourceDir       string `yaml:"source_dir"`
	Table           string `yaml:"table"`
	Schema          string `yaml:"schema,omitempty"`
	BatchSize       int    `yaml:"batch_size,omitempty"`
	PageSize        int    `yaml:"page_size,omitempty"`
	OnError         string `yaml:"on_error,omitempty"`
	IfExists        string `yaml:"if_exists,omitempty"`
	VarcharHeadroom *int   `yaml:"varchar_headroom,omitempty"`
}

// LoadJob reads a job file. A missing file yields ErrConfigNotFound.
func LoadJob(path string) (*JobConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
		}
		return nil, err
	}

	var cfg JobConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, err, pgload.ErrInvalidConfig)
	}
	return &cfg, nil
}

// Resolve validates the job and converts it into a pgload.LoadJob.
// It returns a multi-error if multiple validation failures occur.
func (c *JobConfig) Resolve() (pgload.LoadJob, error) {
	var errs []error

	schema := c.Schema
	if schema == "" {
		schema = pgload.DefaultSchema
	}

	if c.SourceDir == "" {
		errs = append(errs, fmt.Errorf("source_dir is required: %w", pgload.ErrInvalidConfig))
	}
	table, err := pgload.ParseTableName(c.Table, schema)
	if err != nil {
		errs = append(errs, err)
	}
	if c.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("batch_size %d must not be negative: %w", c.BatchSize, pgload.ErrInvalidConfig))
	}
	if c.PageSize < 0 {
		errs = append(errs, fmt.Errorf("page_size %d must not be negative: %w", c.PageSize, pgload.ErrInvalidConfig))
	}
	policy, err := pgload.ParseFailurePolicy(c.OnError)
	if err != nil {
		errs = append(errs, err)
	}
	ifExists, err := pgload.ParseIfExists(c.IfExists)
	if err != nil {
		errs = append(errs, err)
	}

	headroom := pgload.DefaultVarcharHeadroom
	if c.VarcharHeadroom != nil {
		headroom = *c.VarcharHeadroom
		if headroom < 0 {
			errs = append(errs, fmt.Errorf("varchar_headroom %d must not be negative: %w", headroom, pgload.ErrInvalidConfig))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return pgload.LoadJob{}, err
	}

	batchSize := c.BatchSize
	if batchSize == 0 {
		batchSize = pgload.DefaultBatchSize
	}

	return pgload.LoadJob{
		SourceDir: c.SourceDir,
		Table:     table,
		IfExists:  ifExists,
		Options: pgload.LoadOptions{
			BatchSize: batchSize,
			PageSize:  c.PageSize,
			Policy:    policy,
		},
		VarcharHeadroom: headroom,
	}, nil
}
