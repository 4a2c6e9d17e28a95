// Package config reads the connection INI file and the YAML job file.
//
// The INI file carries a single [postgresql] section:
//
//	[postgresql]
//	host=localhost
//	port=5432
//	database=sales
//	user=loader
//	password=secret
//
// Optional keys: sslmode, management_database, auth_method, application_name,
// connect_timeout (seconds), aws_region, google_instance, azure_tenant_id
// and azure_client_id.
package config
