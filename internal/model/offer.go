package model

import (
	"encoding/json"
	"errors"
	"time"
)

// Detail slot keys, in the order they are stored on every offer.
const (
	DetailBrand     = "MARQUE"
	DetailSize      = "TAILLE"
	DetailCondition = "ÉTAT"
	DetailColor     = "COULEUR"
	DetailLocation  = "EMPLACEMENT"
)

// DetailKeys lists the recognized detail slots in storage order.
var DetailKeys = []string{DetailBrand, DetailSize, DetailCondition, DetailColor, DetailLocation}

// Sort tokens accepted by the catalog search.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

var ErrInvalidDetail = errors.New("detail must hold exactly one key")

// Offer represents a listing in the catalog.
type Offer struct {
	ID          string            `json:"_id"`
	Name        string            `json:"product_name"`
	Description string            `json:"product_description"`
	Price       float64           `json:"product_price"`
	Details     []Detail          `json:"product_details"`
	Image       *AssetDescriptor  `json:"product_image,omitempty"`
	Pictures    []AssetDescriptor `json:"product_pictures"`
	OwnerID     string            `json:"-"`
	Owner       *Owner            `json:"owner,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Detail is one single-key attribute record of an offer, e.g. {"MARQUE": "Zara"}.
// Details are an ordered list rather than a map so slot positions survive round trips.
type Detail struct {
	Key   string
	Value string
}

// MarshalJSON encodes the detail as a single-key object.
func (d Detail) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{d.Key: d.Value})
}

// UnmarshalJSON decodes a single-key object. A null value decodes to the empty string.
func (d *Detail) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 1 {
		return ErrInvalidDetail
	}
	for k, v := range raw {
		d.Key = k
		d.Value = ""
		if v != nil {
			d.Value = *v
		}
	}
	return nil
}

// Owner is the projection of a user embedded in an offer response.
type Owner struct {
	ID      string  `json:"_id"`
	Account Account `json:"account"`
}

// OfferQuery holds the catalog search parameters. Nil price bounds are open-ended.
type OfferQuery struct {
	Title    string
	PriceMin *float64
	PriceMax *float64
	Sort     string
	Page     int
	Limit    int
}

// Offset returns the number of records skipped before the requested page.
func (q OfferQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// OfferList is a page of search results with the size of the whole filtered set.
type OfferList struct {
	Count  int     `json:"count"`
	Offers []Offer `json:"offers"`
}

// PublishRequest represents the form fields of a new offer.
// Price is kept raw so validation happens in one place.
type PublishRequest struct {
	Title       string
	Description string
	Price       string
	Brand       string
	Size        string
	Condition   string
	Color       string
	City        string
	Location    string
}

// UpdateRequest represents a partial offer update. Empty fields are left unchanged.
// City is accepted as an alias of Location, as on publish.
type UpdateRequest struct {
	Title       string
	Description string
	Price       string
	Brand       string
	Size        string
	Condition   string
	Color       string
	City        string
	Location    string
}

// MessageResponse is a plain acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}
