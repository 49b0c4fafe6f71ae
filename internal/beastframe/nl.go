package beastframe

import "sort"

// nlRow maps a latitude breakpoint to the CPR longitude zone count that
// applies up to (and including) that latitude.
type nlRow struct {
	lat   float64
	zones uint32
}

// Lookup table for the CPR NL() function, derived from the standard
// closed-form definition. Rows are sorted by latitude breakpoint.
var nlTable = [...]nlRow{
	{10.47047130, 59},
	{14.82817437, 58},
	{18.18626357, 57},
	{21.02939493, 56},
	{23.54504487, 55},
	{25.82924707, 54},
	{27.93898710, 53},
	{29.91135686, 52},
	{31.77209708, 51},
	{33.53993436, 50},
	{35.22899598, 49},
	{36.85025108, 48},
	{38.41241892, 47},
	{39.92256684, 46},
	{41.38651832, 45},
	{42.80914012, 44},
	{44.19454951, 43},
	{45.54626723, 42},
	{46.86733252, 41},
	{48.16039128, 40},
	{49.42776439, 39},
	{50.67150166, 38},
	{51.89342469, 37},
	{53.09516153, 36},
	{54.27817472, 35},
	{55.44378444, 34},
	{56.59318756, 33},
	{57.72747354, 32},
	{58.84763776, 31},
	{59.95459277, 30},
	{61.04917774, 29},
	{62.13216659, 28},
	{63.20427479, 27},
	{64.26616523, 26},
	{65.31845310, 25},
	{66.36171008, 24},
	{67.39646774, 23},
	{68.42322022, 22},
	{69.44242631, 21},
	{70.45451075, 20},
	{71.45986473, 19},
	{72.45884545, 18},
	{73.45177442, 17},
	{74.43893416, 16},
	{75.42056257, 15},
	{76.39684391, 14},
	{77.36789461, 13},
	{78.33374083, 12},
	{79.29428225, 11},
	{80.24923213, 10},
	{81.19801349, 9},
	{82.13956981, 8},
	{83.07199445, 7},
	{83.99173563, 6},
	{84.89166191, 5},
	{85.75541621, 4},
	{86.53536998, 3},
	{87.00000000, 2},
	{90.00000000, 1},
}

// cprNL returns the number of longitude zones for the given latitude.
// Latitudes beyond every breakpoint fall in the polar cap (1 zone).
func cprNL(lat float64) uint32 {
	if lat < 0 {
		lat = -lat
	}
	idx := sort.Search(len(nlTable), func(i int) bool {
		return nlTable[i].lat >= lat
	})
	if idx >= len(nlTable) {
		return 1
	}
	return nlTable[idx].zones
}

// cprN returns the longitude zone count for one frame parity, floored at
// 1 so the zone width divisor never reaches zero near the poles.
func cprN(lat float64, odd bool) uint32 {
	nl := cprNL(lat)
	if odd {
		nl--
	}
	if nl < 1 {
		return 1
	}
	return nl
}
