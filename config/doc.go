// Package config resolves the service configuration once at startup from
// fallback values, an optional YAML file and environment variables (PORT,
// DB_HOST, DB_USER, DB_PASSWORD, DB_NAME, ...). The result is validated and
// handed to the components that need it.
package config
