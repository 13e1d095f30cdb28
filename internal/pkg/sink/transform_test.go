package sink

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDetail = `{
	"id": "893312828",
	"type": "Apartamento",
	"address": "Rua dos Pinheiros",
	"neighbourhood": "Pinheiros",
	"city": "São Paulo",
	"regionName": "Zona Oeste",
	"coordinates": {"lat": -23.561684, "lng": -46.655981},
	"area": 54,
	"bedrooms": 2,
	"bathrooms": 1,
	"parkingSpots": 1,
	"rent": 3200,
	"totalCost": 4100,
	"condoFee": 650,
	"forRent": true,
	"forSale": false,
	"photos": ["img/1.jpg"]
}`

func TestNormalize(t *testing.T) {
	property, err := Normalize("893312828", json.RawMessage(validDetail))
	require.NoError(t, err)

	assert.Equal(t, "893312828", property.ID)
	assert.Equal(t, "São Paulo", property.City)
	assert.Equal(t, -23.561684, property.Latitude)
	assert.Equal(t, 3200.0, property.RentPrice)
	assert.True(t, property.ForRent)
	assert.Equal(t, "quintoandar", property.Source)

	// Geohash of Pinheiros, São Paulo
	assert.Equal(t, "6gycfqd", property.Geohash)
}

func TestNormalizeMalformedPayload(t *testing.T) {
	_, err := Normalize("x", json.RawMessage(`{"coordinates": "not-an-object"}`))
	require.Error(t, err)
}

func TestNormalizeMissingRequiredFields(t *testing.T) {
	// No city and no coordinates, the schema must reject it
	_, err := Normalize("x", json.RawMessage(`{"id": "x", "rent": 1000}`))
	require.Error(t, err)
}

func TestNormalizeOutOfRangeCoordinates(t *testing.T) {
	_, err := Normalize("x", json.RawMessage(`{
		"city": "Nowhere",
		"coordinates": {"lat": 123.0, "lng": 0.1}
	}`))
	require.Error(t, err)
}
