package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pgload/pgload/pkg/pgload"
	"gopkg.in/ini.v1"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// LoadConnectionParams reads the postgresql section of an INI file.
// PGPASSWORD fills an empty password and AZURE_CLIENT_SECRET the Azure
// client secret, so neither has to live in the file.
func LoadConnectionParams(path string) (pgload.ConnectionParams, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return pgload.ConnectionParams{}, fmt.Errorf("%s: %w: %w", path, ErrConfigNotFound, pgload.ErrInvalidConfig)
		}
		return pgload.ConnectionParams{}, fmt.Errorf("%s: %w: %w", path, err, pgload.ErrInvalidConfig)
	}

	file, err := ini.Load(path)
	if err != nil {
		return pgload.ConnectionParams{}, fmt.Errorf("parse %s: %w: %w", path, err, pgload.ErrInvalidConfig)
	}
	if !file.HasSection(pgload.ConfigSection) {
		return pgload.ConnectionParams{}, fmt.Errorf("section %s not found in the %s file: %w",
			pgload.ConfigSection, path, pgload.ErrInvalidConfig)
	}

	return paramsFromSection(file.Section(pgload.ConfigSection))
}

func paramsFromSection(sec *ini.Section) (pgload.ConnectionParams, error) {
	params := pgload.ConnectionParams{
		Host:               sec.Key("host").String(),
		Port:               pgload.DefaultPort,
		Database:           sec.Key("database").String(),
		User:               sec.Key("user").String(),
		Password:           sec.Key("password").String(),
		SSLMode:            sec.Key("sslmode").String(),
		ManagementDatabase: sec.Key("management_database").String(),
		AppName:            sec.Key("application_name").String(),
		AWSRegion:          sec.Key("aws_region").String(),
		GoogleInstance:     sec.Key("google_instance").String(),
		AzureTenantID:      sec.Key("azure_tenant_id").String(),
		AzureClientID:      sec.Key("azure_client_id").String(),
	}

	if sec.HasKey("port") {
		port, err := sec.Key("port").Int()
		if err != nil {
			return pgload.ConnectionParams{}, fmt.Errorf("port %q is not a number: %w", sec.Key("port").String(), pgload.ErrInvalidConfig)
		}
		params.Port = port
	}

	if sec.HasKey("connect_timeout") {
		seconds, err := sec.Key("connect_timeout").Int()
		if err != nil || seconds < 0 {
			return pgload.ConnectionParams{}, fmt.Errorf("connect_timeout %q must be whole seconds: %w",
				sec.Key("connect_timeout").String(), pgload.ErrInvalidConfig)
		}
		params.ConnectTimeout = time.Duration(seconds) * time.Second
	}

	method, err := pgload.ParseAuthMethod(sec.Key("auth_method").String())
	if err != nil {
		return pgload.ConnectionParams{}, err
	}
	params.AuthMethod = method

	if params.Password == "" {
		params.Password = os.Getenv("PGPASSWORD")
	}
	params.AzureClientSecret = os.Getenv("AZURE_CLIENT_SECRET")

	return params, nil
}
