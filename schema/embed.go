package schema

import _ "embed"

//go:embed appstream-mapper-config.schema.json
var ConfigSchema []byte

//go:embed appstream-mapper-mappings.schema.json
var MappingsSchema []byte
