package survey

import (
	"math"
	"strings"

	"github.com/montanaflynn/stats"
)

// PaymentBuckets lists the monthly paid-spend answers in display order.
var PaymentBuckets = []PaymentBucket{
	{Label: noPaidSpendLabel, Short: "0원", Midpoint: 0},
	{Label: "0원 초과 ~ 5만원 미만", Short: "~5만원", Midpoint: 2.5},
	{Label: "5만원 이상 ~ 10만원 미만", Short: "5~10만원", Midpoint: 7.5},
	{Label: "10만원 이상 ~ 20만원 미만", Short: "10~20만원", Midpoint: 15},
	{Label: "20만원 이상", Short: "20만원+", Midpoint: 25},
}

// PaymentBucket maps a spend-range answer to a representative amount in
// units of 10,000 KRW. Midpoints are for averaging only.
type PaymentBucket struct {
	Label    string
	Short    string
	Midpoint float64
}

// Bucketize returns the midpoint for a payment answer. Empty, "no paid
// spend" and unrecognised answers all map to 0.
func Bucketize(text string) float64 {
	if text == "" {
		return 0
	}
	for _, b := range PaymentBuckets {
		if strings.Contains(text, b.Label) {
			return b.Midpoint
		}
	}
	return 0
}

// AverageSpend is the mean bucket midpoint over rows, 0 for no rows.
func AverageSpend(rows []Row, paymentCol string) float64 {
	if len(rows) == 0 {
		return 0
	}
	vals := make([]float64, len(rows))
	for i, r := range rows {
		vals[i] = Bucketize(r.Get(paymentCol))
	}
	mean, err := stats.Mean(vals)
	if err != nil {
		return 0
	}
	return mean
}

// PaidRate is the fraction of rows with a positive bucket, in [0, 1].
func PaidRate(rows []Row, paymentCol string) float64 {
	if len(rows) == 0 {
		return 0
	}
	paid := 0
	for _, r := range rows {
		if Bucketize(r.Get(paymentCol)) > 0 {
			paid++
		}
	}
	return float64(paid) / float64(len(rows))
}

// PaymentSlice is one bar of the spend distribution chart.
type PaymentSlice struct {
	Name     string `json:"name"`
	Value    int    `json:"value"`
	FullName string `json:"fullName"`
}

// PaymentDistribution counts exact payment answers per bucket label, in
// bucket order, omitting labels nobody chose.
func PaymentDistribution(rows []Row, paymentCol string) []PaymentSlice {
	if paymentCol == "" {
		return nil
	}
	counts := map[string]int{}
	for _, r := range rows {
		if v := r.Get(paymentCol); v != "" {
			counts[v]++
		}
	}
	var out []PaymentSlice
	for _, b := range PaymentBuckets {
		if n := counts[b.Label]; n > 0 {
			out = append(out, PaymentSlice{Name: b.Short, Value: n, FullName: b.Label})
		}
	}
	return out
}

func roundTo(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
