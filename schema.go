package mirasdk

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// ProfileSchema returns the JSON schema of the persisted MoodProfile record,
// for consumers that read the store directly.
func ProfileSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&MoodProfile{})
	schema.Title = "MoodProfile"
	return json.MarshalIndent(schema, "", "  ")
}
