// Copyright 2025 Kadir Pekel
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/kadirpekel/welcomer/pkg/config"
)

// SchemaCmd generates JSON Schema from the config structs.
// Output is written to stdout so it can be redirected.
type SchemaCmd struct {
	// Compact enables compact JSON output (no indentation)
	Compact bool `help:"Compact JSON output (no indentation)."`
}

// Run executes the schema generation command.
func (c *SchemaCmd) Run(cli *CLI) error {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	schema := reflector.Reflect(&config.Config{})
	schema.ID = "https://github.com/kadirpekel/welcomer/schemas/config.json"
	schema.Title = "Welcomer Configuration Schema"
	schema.Description = "Configuration of the welcome letter generator"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	schema.Examples = []interface{}{
		map[string]interface{}{
			"database": map[string]interface{}{
				"driver":   "sqlserver",
				"host":     "${DB_HOST}",
				"database": "IntegraLive",
				"username": "${DB_USER}",
				"password": "${DB_PASSWORD}",
			},
			"template": map[string]interface{}{
				"path": "./templates/welcome_letter_draft.docx",
			},
			"output": map[string]interface{}{
				"dir": "./letters",
			},
		},
	}

	encoder := json.NewEncoder(stdout)
	if !c.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(schema); err != nil {
		return fmt.Errorf("failed to encode schema: %w", err)
	}

	return nil
}
