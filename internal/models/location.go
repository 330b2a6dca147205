package models

import "fmt"

type City string

const (
	CityCasablanca City = "casablanca"
	CityRabat      City = "rabat"
	CityMarrakech  City = "marrakech"
	CityFes        City = "fes"
	CityTangier    City = "tangier"
	CityAgadir     City = "agadir"
	CityMeknes     City = "meknes"
	CityOujda      City = "oujda"
	CityBeniMellal City = "benimellal"
)

var cities = []City{
	CityCasablanca, CityRabat, CityMarrakech, CityFes, CityTangier,
	CityAgadir, CityMeknes, CityOujda, CityBeniMellal,
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StoreLocation is the branch that prepares orders for a city. Branches
// without coordinates have no live map in tracking.
type StoreLocation struct {
	City     City      `json:"city"`
	Name     string    `json:"name"`
	Area     string    `json:"area"`
	Location *Location `json:"location,omitempty"`
}

var storeLocations = map[City]StoreLocation{
	CityMarrakech:  {City: CityMarrakech, Name: "Gueliz", Area: "Gueliz, Avenue Mohammed V", Location: &Location{Lat: 31.6295, Lon: -8.0084}},
	CityCasablanca: {City: CityCasablanca, Name: "Maarif", Area: "Maarif, Rue Normandie", Location: &Location{Lat: 33.5731, Lon: -7.6236}},
	CityRabat:      {City: CityRabat, Name: "Agdal", Area: "Agdal, Avenue Fal Ould Oumeir", Location: &Location{Lat: 33.9716, Lon: -6.8498}},
	CityAgadir:     {City: CityAgadir, Name: "Marina", Area: "Marina, Boulevard du 20 Août", Location: &Location{Lat: 30.4278, Lon: -9.5981}},
	CityBeniMellal: {City: CityBeniMellal, Name: "Oulad Hemdan", Area: "Oulad Hemdan, Route de Fquih Ben Salah", Location: &Location{Lat: 32.3373, Lon: -6.3498}},
	CityTangier:    {City: CityTangier, Name: "Malabata", Area: "Malabata, Route de Malabata", Location: &Location{Lat: 35.7895, Lon: -5.8030}},
	CityFes:        {City: CityFes, Name: "Ville Nouvelle", Area: "Ville Nouvelle, Avenue Hassan II"},
	CityMeknes:     {City: CityMeknes, Name: "Hamria", Area: "Hamria, Avenue des FAR"},
	CityOujda:      {City: CityOujda, Name: "Centre Ville", Area: "Centre Ville, Boulevard Mohammed V"},
}

func Cities() []City {
	out := make([]City, len(cities))
	copy(out, cities)
	return out
}

func ParseCity(s string) (City, error) {
	for _, c := range cities {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCity, s)
}

// StoreFor resolves the branch serving a city, falling back to Casablanca.
func StoreFor(city City) StoreLocation {
	if loc, ok := storeLocations[city]; ok {
		return loc
	}
	return storeLocations[CityCasablanca]
}

// HasDeliveryTracking reports whether live tracking is offered for the city.
func HasDeliveryTracking(city City) bool {
	loc, ok := storeLocations[city]
	return ok && loc.Location != nil
}
