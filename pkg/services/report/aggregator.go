package report

import (
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/cost-reporter/pkg/models/domain"
)

const unknownKey = "unknown"

// Aggregation is the output of folding raw time buckets into totals.
type Aggregation struct {
	TotalCost         float64
	ByEnvironment     *domain.OrderedTotals
	ByService         *domain.OrderedTotals
	ByProviderService *domain.OrderedTotals
	DailySeries       []domain.DailyCost
	Records           []domain.CostRecord
}

// Aggregate folds the grouped rows of every time bucket into the three
// breakdowns, the per-bucket series, and the grand total. Blank group
// keys default to "unknown". Empty input yields zero totals, not an
// error. Breakdown keys keep first-encounter order; the series keeps the
// provider's bucket order.
func Aggregate(results []types.ResultByTime) Aggregation {
	agg := Aggregation{
		ByEnvironment:     domain.NewOrderedTotals(),
		ByService:         domain.NewOrderedTotals(),
		ByProviderService: domain.NewOrderedTotals(),
	}

	for _, bucket := range results {
		var bucketStart string
		if bucket.TimePeriod != nil && bucket.TimePeriod.Start != nil {
			bucketStart = *bucket.TimePeriod.Start
		}
		bucketDate, _ := time.Parse("2006-01-02", bucketStart)

		var bucketTotal float64
		for _, group := range bucket.Groups {
			cost := blendedCost(group.Metrics)

			environment := groupKey(group.Keys, 0)
			service := groupKey(group.Keys, 1)
			providerService := groupKey(group.Keys, 2)

			agg.ByEnvironment.Add(environment, cost)
			agg.ByService.Add(service, cost)
			agg.ByProviderService.Add(providerService, cost)
			bucketTotal += cost

			agg.Records = append(agg.Records, domain.CostRecord{
				Date:            bucketDate,
				Environment:     environment,
				LogicalService:  service,
				ProviderService: providerService,
				Cost:            cost,
			})
		}

		agg.DailySeries = append(agg.DailySeries, domain.DailyCost{
			Date: bucketStart,
			Cost: bucketTotal,
		})
		agg.TotalCost += bucketTotal
	}

	return agg
}

func blendedCost(metrics map[string]types.MetricValue) float64 {
	metric, ok := metrics["BlendedCost"]
	if !ok || metric.Amount == nil {
		return 0
	}
	amount, _ := strconv.ParseFloat(*metric.Amount, 64)
	return amount
}

// groupKey returns the i-th group key. Cost Explorer encodes tag keys
// as "TagKey$value" and an untagged resource as "TagKey$", so the
// prefix is stripped and both missing and blank values fall back to
// "unknown".
func groupKey(keys []string, i int) string {
	if i >= len(keys) {
		return unknownKey
	}
	key := keys[i]
	if idx := strings.Index(key, "$"); idx >= 0 {
		key = key[idx+1:]
	}
	if key == "" {
		return unknownKey
	}
	return key
}
