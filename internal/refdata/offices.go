package refdata

import "strings"

// Region is a migration office and the standard work address used when
// filling the notification for that office's city.
type Region struct {
	OfficeName  string
	WorkAddress string
}

const defaultRegion = "ДМИТРОВ"

var regions = map[string]Region{
	"ДМИТРОВ": {
		OfficeName:  "ОТДЕЛ ПО ВОПРОСАМ МИГРАЦИИ УМВД РОССИИ ПО ДМИТРОВСКОМУ ГОРОДСКОМУ ОКРУГУ",
		WorkAddress: "МОСКОВСКАЯ ОБЛАСТЬ, ДМИТРОВСКИЙ ГОРОДСКОЙ ОКРУГ, УЛ. ПОЧТОВАЯ Д.16, КОРПУС 1",
	},
	"ДОЛГОПРУДНЫЙ": {
		OfficeName:  `ОТДЕЛ ПО ВОПРОСАМ МИГРАЦИИ МУ МВД РОССИИ "МЫТИЩИНСКОЕ"`,
		WorkAddress: "МОСКОВСКАЯ ОБЛАСТЬ, Г. ДОЛГОПРУДНЫЙ, ЛИХАЧЕВСКОЕ ШОССЕ, Д. 27",
	},
	"ВОЛЖСКИЙ": {
		OfficeName:  "УПРАВЛЕНИЕ ПО ВОПРОСАМ МИГРАЦИИ ГУ МВД РОССИИ ПО ВОЛГОГРАДСКОЙ ОБЛАСТИ",
		WorkAddress: "ВОЛГОГРАДСКАЯ ОБЛАСТЬ, Г. ВОЛЖСКИЙ, ПРОСПЕКТ МЕТАЛЛУРГОВ, Д. 6",
	},
}

// Cities lists the supported city keys in menu order.
var Cities = []string{"ДМИТРОВ", "ДОЛГОПРУДНЫЙ", "ВОЛЖСКИЙ"}

// RegionForCity resolves the office for a free-form city string. Matches
// are case-insensitive and allow declined forms ("в Долгопрудном");
// unknown cities fall back to the Дмитров office.
func RegionForCity(city string) Region {
	c := strings.ToUpper(strings.TrimSpace(city))
	if c == "" {
		return regions[defaultRegion]
	}
	for key, r := range regions {
		if strings.Contains(c, key) {
			return r
		}
	}
	switch {
	case strings.Contains(c, "ДМИТРОВ"):
		return regions["ДМИТРОВ"]
	case strings.Contains(c, "ДОЛГОПРУДН"):
		return regions["ДОЛГОПРУДНЫЙ"]
	case strings.Contains(c, "ВОЛЖСК"):
		return regions["ВОЛЖСКИЙ"]
	}
	return regions[defaultRegion]
}
