package sink

import (
	"encoding/json"
	"fmt"

	"github.com/mmcloughlin/geohash"
)

const geohashPrecision = 7

// Property is the portal-agnostic record handed to the ingestion sink
type Property struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Address      string   `json:"address"`
	Neighborhood string   `json:"neighborhood"`
	City         string   `json:"city"`
	Region       string   `json:"region"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	Geohash      string   `json:"geohash"`
	Area         float64  `json:"area"`
	Bedrooms     int      `json:"bedrooms"`
	Bathrooms    int      `json:"bathrooms"`
	ParkingSpots int      `json:"parking_spots"`
	RentPrice    float64  `json:"rent_price"`
	TotalCost    float64  `json:"total_cost"`
	SalePrice    float64  `json:"sale_price"`
	Condo        float64  `json:"condo"`
	IPTU         float64  `json:"iptu"`
	ForRent      bool     `json:"for_rent"`
	ForSale      bool     `json:"for_sale"`
	Photos       []string `json:"photos"`
	Source       string   `json:"source"`
}

// rawDetail mirrors the fields the portal's detail payload carries. Numeric
// fields come back as either numbers or numeric strings depending on the
// endpoint version, json.Number swallows both.
type rawDetail struct {
	ID           json.Number `json:"id"`
	Type         string      `json:"type"`
	Address      string      `json:"address"`
	Neighborhood string      `json:"neighbourhood"`
	City         string      `json:"city"`
	RegionName   string      `json:"regionName"`
	Coordinates  struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"coordinates"`
	Area         float64     `json:"area"`
	Bedrooms     int         `json:"bedrooms"`
	Bathrooms    int         `json:"bathrooms"`
	ParkingSpots int         `json:"parkingSpots"`
	Rent         float64     `json:"rent"`
	TotalCost    float64     `json:"totalCost"`
	SalePrice    float64     `json:"salePrice"`
	Condo        float64     `json:"condoFee"`
	IPTU         float64     `json:"iptuPlusCondominium"`
	ForRent      bool        `json:"forRent"`
	ForSale      bool        `json:"forSale"`
	Photos       []string    `json:"photos"`
}

// Normalize turn a raw detail payload into a validated Property. A failure
// here is treated by the caller exactly like a fetch failure: bounded retry,
// then permanent failure.
func Normalize(id string, raw json.RawMessage) (*Property, error) {
	var detail rawDetail
	if err := json.Unmarshal(raw, &detail); err != nil {
		return nil, fmt.Errorf("sink: cannot decode detail record %s: %w", id, err)
	}

	property := &Property{
		ID:           id,
		Type:         detail.Type,
		Address:      detail.Address,
		Neighborhood: detail.Neighborhood,
		City:         detail.City,
		Region:       detail.RegionName,
		Latitude:     detail.Coordinates.Lat,
		Longitude:    detail.Coordinates.Lng,
		Area:         detail.Area,
		Bedrooms:     detail.Bedrooms,
		Bathrooms:    detail.Bathrooms,
		ParkingSpots: detail.ParkingSpots,
		RentPrice:    detail.Rent,
		TotalCost:    detail.TotalCost,
		SalePrice:    detail.SalePrice,
		Condo:        detail.Condo,
		IPTU:         detail.IPTU,
		ForRent:      detail.ForRent,
		ForSale:      detail.ForSale,
		Photos:       detail.Photos,
		Source:       "quintoandar",
	}

	if property.Latitude != 0 || property.Longitude != 0 {
		property.Geohash = geohash.EncodeWithPrecision(property.Latitude, property.Longitude, geohashPrecision)
	}

	if err := validate(property); err != nil {
		return nil, fmt.Errorf("sink: record %s failed validation: %w", id, err)
	}

	return property, nil
}
