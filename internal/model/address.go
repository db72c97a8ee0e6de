package model

import (
	"strings"
	"time"
)

// Address is a saved delivery address on the user's profile.
type Address struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"-" db:"user_id"`
	AddressLabel       string    `json:"addressLabel" db:"address_label"`
	BuildingName       string    `json:"buildingName" db:"building_name"`
	StreetName         string    `json:"streetName" db:"street_name"`
	Pincode            string    `json:"pincode" db:"pincode"`
	FlatNumber         string    `json:"flatNumber" db:"flat_number"`
	PhoneNumber        string    `json:"phoneNumber" db:"phone_number"`
	FirstName          string    `json:"firstName" db:"first_name"`
	LastName           string    `json:"lastName" db:"last_name"`
	AutofetchedAddress string    `json:"autofetchedAddress" db:"autofetched_address"`
	Latitude           float64   `json:"latitude" db:"latitude"`
	Longitude          float64   `json:"longitude" db:"longitude"`
	IsDefault          bool      `json:"isDefault" db:"is_default"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
}

// Validate checks the required address form fields in display order and
// reports the first one that is missing or malformed.
func (a *Address) Validate() error {
	required := []struct {
		value string
		label string
	}{
		{a.FirstName, "first name"},
		{a.LastName, "last name"},
		{a.PhoneNumber, "phone number"},
		{a.FlatNumber, "flat number"},
		{a.BuildingName, "building name"},
		{a.StreetName, "street name"},
		{a.Pincode, "pincode"},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return NewValidationError(field.label + " is required")
		}
	}

	if !isDigits(a.PhoneNumber, 10) {
		return NewValidationError("phone number must be 10 digits")
	}
	if !isDigits(a.Pincode, 6) {
		return NewValidationError("pincode must be 6 digits")
	}

	return nil
}

// EnsureDefault flags exactly one address as default. When none is flagged the
// most recently created address is promoted. It reports whether anything changed.
func EnsureDefault(addresses []Address) bool {
	if len(addresses) == 0 {
		return false
	}

	defaults := 0
	newest := 0
	for i, a := range addresses {
		if a.IsDefault {
			defaults++
		}
		if a.CreatedAt.After(addresses[newest].CreatedAt) {
			newest = i
		}
	}

	if defaults == 1 {
		return false
	}

	keep := newest
	if defaults > 1 {
		// keep the newest of the flagged ones
		keep = -1
		for i, a := range addresses {
			if a.IsDefault && (keep == -1 || a.CreatedAt.After(addresses[keep].CreatedAt)) {
				keep = i
			}
		}
	}

	for i := range addresses {
		addresses[i].IsDefault = i == keep
	}
	return true
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
