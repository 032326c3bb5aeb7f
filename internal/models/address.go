package models

// AdminLevel is one tier of the administrative hierarchy attached to an address.
// Level 1 is the broadest region, higher levels are nested inside it.
type AdminLevel struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

// Address is a normalized geocoding match, independent of the provider that produced it.
//
// Optional fields are nil when the provider did not return a value for them;
// an empty string is never stored.
type Address struct {
	ProvidedBy   string       `json:"providedBy"`
	Coordinates  Coordinates  `json:"coordinates"`
	StreetNumber *string      `json:"streetNumber,omitempty"`
	StreetName   *string      `json:"streetName,omitempty"`
	Locality     *string      `json:"locality,omitempty"`
	PostalCode   *string      `json:"postalCode,omitempty"`
	CountryCode  *string      `json:"countryCode,omitempty"`
	AdminLevels  []AdminLevel `json:"adminLevels"`
}

// OptionalString returns nil for an empty value and a pointer to value otherwise.
func OptionalString(value string) *string {
	if value == "" {
		return nil
	}

	return &value
}
