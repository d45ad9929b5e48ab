// Package catalog provides the static make/model suggestion lists used to
// populate the entry form. The lists are advisory only; scoring accepts any
// make or model string.
package catalog

import "strings"

// Make pairs a display name with its known models.
type Make struct {
	Name   string
	Models []string
}

var makes = []Make{
	{Name: "Toyota", Models: []string{"Camry", "Corolla", "RAV4", "Highlander", "4Runner", "Tacoma", "Tundra", "Prius", "Sienna"}},
	{Name: "Honda", Models: []string{"Accord", "Civic", "CR-V", "Pilot", "Odyssey", "HR-V", "Ridgeline", "Fit"}},
	{Name: "Ford", Models: []string{"F-150", "Escape", "Explorer", "Mustang", "Edge", "Ranger", "Bronco", "Expedition"}},
	{Name: "Chevrolet", Models: []string{"Silverado", "Equinox", "Tahoe", "Traverse", "Malibu", "Suburban", "Colorado", "Camaro", "Corvette"}},
	{Name: "BMW", Models: []string{"3 Series", "5 Series", "X3", "X5", "X7", "7 Series", "X1", "X6"}},
	{Name: "Mercedes-Benz", Models: []string{"C-Class", "E-Class", "S-Class", "GLC", "GLE", "GLS", "A-Class", "G-Class"}},
	{Name: "Audi", Models: []string{"A4", "A6", "Q5", "Q7", "A3", "Q3", "Q8", "e-tron"}},
	{Name: "Volkswagen", Models: []string{"Jetta", "Passat", "Tiguan", "Atlas", "Golf", "ID.4", "Taos", "Arteon"}},
	{Name: "Lexus", Models: []string{"RX", "ES", "NX", "GX", "IS", "LX", "UX", "LS"}},
	{Name: "Subaru", Models: []string{"Outback", "Forester", "Crosstrek", "Ascent", "Impreza", "Legacy", "WRX", "BRZ"}},
	{Name: "Hyundai", Models: []string{"Elantra", "Tucson", "Santa Fe", "Kona", "Palisade", "Sonata", "Venue", "Ioniq"}},
	{Name: "Kia", Models: []string{"Sorento", "Sportage", "Telluride", "Forte", "Soul", "Seltos", "Carnival", "K5"}},
	{Name: "Nissan", Models: []string{"Rogue", "Altima", "Sentra", "Pathfinder", "Murano", "Kicks", "Frontier", "Titan"}},
	{Name: "Mazda", Models: []string{"CX-5", "Mazda3", "CX-9", "CX-30", "Mazda6", "MX-5 Miata", "CX-50"}},
	{Name: "Jeep", Models: []string{"Grand Cherokee", "Wrangler", "Cherokee", "Compass", "Renegade", "Gladiator", "Wagoneer"}},
}

// Makes returns all known make names in display order.
func Makes() []string {
	names := make([]string, len(makes))
	for i, m := range makes {
		names[i] = m.Name
	}
	return names
}

// ModelsFor returns the models for a make, case-insensitively.
// Unknown makes return an empty slice, never nil.
func ModelsFor(makeName string) []string {
	for _, m := range makes {
		if strings.EqualFold(m.Name, makeName) {
			out := make([]string, len(m.Models))
			copy(out, m.Models)
			return out
		}
	}
	return []string{}
}
