package geo

// usStates lists the two-letter U.S. state codes. A state code as the
// last segment of a location identifies the United States directly;
// running it through fuzzy country search instead produces garbage
// matches ("IN", "DE", "LA").
var usStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {},
	"CA": {}, "CO": {}, "CT": {}, "DE": {},
	"FL": {}, "GA": {}, "HI": {}, "ID": {},
	"IL": {}, "IN": {}, "IA": {}, "KS": {},
	"KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {},
	"MO": {}, "MT": {}, "NE": {}, "NV": {},
	"NH": {}, "NJ": {}, "NM": {}, "NY": {},
	"NC": {}, "ND": {}, "OH": {}, "OK": {},
	"OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {},
	"VT": {}, "VA": {}, "WA": {}, "WV": {},
	"WI": {}, "WY": {},
}
