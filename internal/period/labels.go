package period

// Labels holds display strings per locale. Scheduling code only ever uses
// the Weekday tags themselves.
var Labels = map[string]map[Weekday]string{
	"en": {
		Monday:    "Mon",
		Tuesday:   "Tue",
		Wednesday: "Wed",
		Thursday:  "Thu",
		Friday:    "Fri",
		Saturday:  "Sat",
		Sunday:    "Sun",
	},
	"fr": {
		Monday:    "Lun",
		Tuesday:   "Mar",
		Wednesday: "Mer",
		Thursday:  "Jeu",
		Friday:    "Ven",
		Saturday:  "Sam",
		Sunday:    "Dim",
	},
}

// Label returns the display label for d, falling back to English and then
// to the raw tag.
func Label(locale string, d Weekday) string {
	if table, ok := Labels[locale]; ok {
		if v, ok := table[d]; ok {
			return v
		}
	}
	if v, ok := Labels["en"][d]; ok {
		return v
	}
	return string(d)
}
