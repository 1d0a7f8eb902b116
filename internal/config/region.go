package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRegion is returned whenever a region outside the known set is configured
var ErrInvalidRegion = errors.New("invalid region")

// Region represents a vendor API deployment region
type Region string

const (
	RegionUS Region = "US"
	RegionEU Region = "EU"
	RegionAU Region = "AU"
	RegionCA Region = "CA"
)

var regionBaseURLs = map[Region]string{
	RegionUS: "https://api.us.frontegg.com",
	RegionEU: "https://api.frontegg.com",
	RegionAU: "https://api.au.frontegg.com",
	RegionCA: "https://api.ca.frontegg.com",
}

// Decode implements envconfig.Decoder
func (region *Region) Decode(value string) error {
	*region = Region(strings.ToUpper(strings.TrimSpace(value)))
	return nil
}

// BaseURL returns the API base URL of the region
func (region Region) BaseURL() (string, error) {
	url, ok := regionBaseURLs[region]
	if !ok {
		return "", fmt.Errorf("%w: REGION = %s, change to EU | US | AU | CA", ErrInvalidRegion, string(region))
	}
	return url, nil
}
