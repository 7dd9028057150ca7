package models

import "strings"

// Counties lists the 47 counties of Kenya in alphabetical order.
var Counties = []string{
	"Baringo",
	"Bomet",
	"Bungoma",
	"Busia",
	"Elgeyo Marakwet",
	"Embu",
	"Garissa",
	"Homa Bay",
	"Isiolo",
	"Kajiado",
	"Kakamega",
	"Kericho",
	"Kiambu",
	"Kilifi",
	"Kirinyaga",
	"Kisii",
	"Kisumu",
	"Kitui",
	"Kwale",
	"Laikipia",
	"Lamu",
	"Machakos",
	"Makueni",
	"Mandera",
	"Marsabit",
	"Meru",
	"Migori",
	"Mombasa",
	"Murang'a",
	"Nairobi",
	"Nakuru",
	"Nandi",
	"Narok",
	"Nyamira",
	"Nyandarua",
	"Nyeri",
	"Samburu",
	"Siaya",
	"Taita Taveta",
	"Tana River",
	"Tharaka Nithi",
	"Trans Nzoia",
	"Turkana",
	"Uasin Gishu",
	"Vihiga",
	"Wajir",
	"West Pokot",
}

// CanonicalCounty returns the county's canonical spelling, matching case-insensitively.
func CanonicalCounty(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range Counties {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
