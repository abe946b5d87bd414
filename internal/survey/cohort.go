package survey

import (
	"strings"

	"github.com/samber/lo"
)

// Cohorts holds the new-hire / veteran partition of a table.
// Rows with an empty affiliation belong to neither cohort.
type Cohorts struct {
	NewHire []Row
	Veteran []Row
}

// IsNewHire reports whether an affiliation answer marks a new hire.
func IsNewHire(affiliation string) bool {
	return strings.Contains(affiliation, NewHireMarker)
}

// SplitCohorts partitions rows by the affiliation column. An empty column
// name yields two empty cohorts.
func SplitCohorts(rows []Row, affiliationCol string) Cohorts {
	if affiliationCol == "" {
		return Cohorts{}
	}
	return Cohorts{
		NewHire: lo.Filter(rows, func(r Row, _ int) bool {
			return IsNewHire(r.Get(affiliationCol))
		}),
		Veteran: lo.Filter(rows, func(r Row, _ int) bool {
			v := r.Get(affiliationCol)
			return v != "" && !IsNewHire(v)
		}),
	}
}

// TenureGroup is one populated tenure band.
type TenureGroup struct {
	Band  string
	Short string
	Rows  []Row
}

// SplitByTenure assigns every new hire to the synthetic 신입 band, then every
// row whose tenure answer equals a TenureBands label to that band. A new hire
// that also answered the tenure question appears in both bands. Bands come
// back in enumeration order and empty bands are omitted.
func SplitByTenure(rows []Row, tenureCol, affiliationCol string) []TenureGroup {
	var out []TenureGroup
	if affiliationCol != "" {
		hires := SplitCohorts(rows, affiliationCol).NewHire
		if len(hires) > 0 {
			out = append(out, TenureGroup{Band: NewHireBand, Short: NewHireBand, Rows: hires})
		}
	}
	if tenureCol == "" {
		return out
	}
	byBand := lo.GroupBy(rows, func(r Row) string { return r.Get(tenureCol) })
	for i, band := range TenureBands {
		if members := byBand[band]; len(members) > 0 {
			out = append(out, TenureGroup{Band: band, Short: TenureShortLabels[i], Rows: members})
		}
	}
	return out
}
