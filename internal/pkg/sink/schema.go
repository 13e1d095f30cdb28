package sink

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// propertySchema is the required-field contract a normalized record must
// satisfy before ingestion. A record violating it is a fetch-equivalent
// failure upstream.
const propertySchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["id", "city", "latitude", "longitude"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"city": {"type": "string", "minLength": 1},
		"latitude": {"type": "number", "minimum": -90, "maximum": 90},
		"longitude": {"type": "number", "minimum": -180, "maximum": 180},
		"area": {"type": "number", "minimum": 0},
		"bedrooms": {"type": "integer", "minimum": 0},
		"bathrooms": {"type": "integer", "minimum": 0},
		"rent_price": {"type": "number", "minimum": 0},
		"sale_price": {"type": "number", "minimum": 0}
	}
}`

var compiledSchema = jsonschema.MustCompileString("property.json", propertySchema)

func validate(property *Property) error {
	// The validator wants the document as generic interface values
	encoded, err := json.Marshal(property)
	if err != nil {
		return err
	}

	var document interface{}
	if err := json.Unmarshal(encoded, &document); err != nil {
		return err
	}

	return compiledSchema.Validate(document)
}
