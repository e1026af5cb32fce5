// Package refdata holds the built-in reference directories: known
// companies by tax id and regional migration offices by city.
package refdata

import "strings"

// Company is a known employer, auto-filled from its tax id.
type Company struct {
	Name         string
	FullName     string
	LegalAddress string
	INN          string
	OGRN         string
	KPP          string
}

var companiesByINN = map[string]Company{
	"7733450363": {
		Name:         `ООО "ЭЛЕНВКВ"`,
		FullName:     `ООО "ЭЛЕНВКВ"`,
		LegalAddress: "Г. МОСКВА, ВН. ТЕР. Г. МУНИЦИПАЛЬНЫЙ ОКРУГ ЮЖНОЕ ТУШИНО, УЛ. ВАСИЛИЯ ПЕТУШКОВА, Д. 8, ПОМЕЩЕНИЕ 1/1А",
		INN:          "7733450363",
		OGRN:         "1247700503885",
		KPP:          "773301001",
	},
}

// ValidINN reports whether s is a well-formed Russian tax id: 10 digits
// for organizations, 12 for individuals.
func ValidINN(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 10 && len(s) != 12 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CompanyByINN looks up a known company. ok is false for unknown tax
// ids; the caller then asks for the company name instead.
func CompanyByINN(inn string) (Company, bool) {
	c, ok := companiesByINN[strings.TrimSpace(inn)]
	return c, ok
}
