// Package openapi OpenAPI仕様ファイルをバイナリに埋め込む
package openapi

import _ "embed"

// Spec 埋め込まれたOpenAPI仕様（YAML）
//
//go:embed openapi.yaml
var Spec []byte
