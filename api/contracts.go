// Package api embeds the service's OpenAPI and AsyncAPI contracts.
package api

import _ "embed"

// OpenAPI is the HTTP contract served at /api/openapi.yaml.
//
//go:embed openapi.yaml
var OpenAPI []byte

// AsyncAPI describes the CloudEvents the outbox publishes.
//
//go:embed asyncapi.yaml
var AsyncAPI []byte
