package geo

// exceptions maps full location strings to a country when fuzzy
// matching on any single segment fails or is wrong. Mostly metro and
// "Greater X" region names the upstream emits verbatim.
var exceptions = map[string]string{
	"Greater Buenos Aires":                 "Argentina",
	"Mumbai Metropolitan Region":           "India",
	"London Area, United Kingdom":          "United Kingdom",
	"New York City Metropolitan Area":      "United States",
	"Mountain View, CA":                    "United States",
	"San Francisco, CA":                    "United States",
	"San Diego, CA":                        "United States",
	"Manhattan Beach, CA":                  "United States",
	"Columbus, OH":                         "United States",
	"New York, NY":                         "United States",
	"Salt Lake City, UT":                   "United States",
	"Draper, UT":                           "United States",
	"Houston, TX":                          "United States",
	"Grand Prairie, TX":                    "United States",
	"Greater Montpellier Metropolitan Area": "France",
	"Greater Lyon Area":                    "France",
	"Greater Tokyo Area":                   "Japan",
	"Greater São Paulo Area":               "Brazil",
	"Greater Paris Metropolitan Region":    "France",
}
