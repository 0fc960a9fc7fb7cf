package publication

import (
	"sort"
	"strconv"
)

// YearGroup is one ordered year bucket of the publications list.
type YearGroup struct {
	Year    string
	Records []Record
}

// GroupByYear buckets records by year and orders everything
// deterministically: groups numerically descending with the unknown bucket
// always last, records within a group by SortDate descending with ties
// broken by title ascending.
//
// Records whose Year is empty or not a number are treated as undated; the
// unknown bucket is never coerced into the numeric comparison.
func GroupByYear(records []Record) []YearGroup {
	buckets := make(map[string][]Record)
	for _, r := range records {
		year := r.Year
		if _, err := strconv.Atoi(year); err != nil {
			year = YearUnknown
		}
		buckets[year] = append(buckets[year], r)
	}

	years := make([]string, 0, len(buckets))
	for year := range buckets {
		if year != YearUnknown {
			years = append(years, year)
		}
	}
	sort.Slice(years, func(i, j int) bool {
		yi, _ := strconv.Atoi(years[i])
		yj, _ := strconv.Atoi(years[j])
		return yi > yj
	})
	if _, ok := buckets[YearUnknown]; ok {
		years = append(years, YearUnknown)
	}

	groups := make([]YearGroup, 0, len(years))
	for _, year := range years {
		items := buckets[year]
		sort.SliceStable(items, func(i, j int) bool {
			if items[i].SortDate != items[j].SortDate {
				return items[i].SortDate > items[j].SortDate
			}
			return items[i].Title < items[j].Title
		})
		groups = append(groups, YearGroup{Year: year, Records: items})
	}

	return groups
}
