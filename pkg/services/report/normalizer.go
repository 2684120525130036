package report

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/de-tools/cost-reporter/pkg/models/domain"
)

// NormalizeRecommendations reshapes provider rightsizing entries into
// the internal form. No filtering or sorting, shape normalization only.
func NormalizeRecommendations(recs []types.RightsizingRecommendation) []domain.Recommendation {
	if len(recs) == 0 {
		return []domain.Recommendation{}
	}

	out := make([]domain.Recommendation, 0, len(recs))
	for _, rec := range recs {
		normalized := domain.Recommendation{
			AccountID:               aws.ToString(rec.AccountId),
			CurrentInstance:         normalizeInstance(rec.CurrentInstance),
			RightsizingType:         string(rec.RightsizingType),
			ModifyRecommendation:    normalizeModify(rec.ModifyRecommendationDetail),
			TerminateRecommendation: normalizeTerminate(rec.TerminateRecommendationDetail),
		}
		normalized.EstimatedMonthlySavings = estimatedSavings(normalized)
		out = append(out, normalized)
	}
	return out
}

// estimatedSavings pulls the savings figure from whichever detail the
// recommendation carries, defaulting to "0" when absent.
func estimatedSavings(rec domain.Recommendation) string {
	if rec.TerminateRecommendation != nil && rec.TerminateRecommendation.EstimatedMonthlySavings != "" {
		return rec.TerminateRecommendation.EstimatedMonthlySavings
	}
	if rec.ModifyRecommendation != nil {
		for _, target := range rec.ModifyRecommendation.TargetInstances {
			if target.EstimatedMonthlySavings != "" {
				return target.EstimatedMonthlySavings
			}
		}
	}
	return "0"
}

func normalizeInstance(instance *types.CurrentInstance) domain.InstanceDescriptor {
	if instance == nil {
		return domain.InstanceDescriptor{}
	}

	descriptor := domain.InstanceDescriptor{
		ResourceID:   aws.ToString(instance.ResourceId),
		InstanceName: aws.ToString(instance.InstanceName),
		MonthlyCost:  aws.ToString(instance.MonthlyCost),
		CurrencyCode: aws.ToString(instance.CurrencyCode),
	}

	if details := instance.ResourceDetails; details != nil && details.EC2ResourceDetails != nil {
		descriptor.InstanceType = aws.ToString(details.EC2ResourceDetails.InstanceType)
		descriptor.Region = aws.ToString(details.EC2ResourceDetails.Region)
	}
	return descriptor
}

func normalizeModify(detail *types.ModifyRecommendationDetail) *domain.ModifyDetail {
	if detail == nil {
		return nil
	}

	targets := make([]domain.TargetInstance, 0, len(detail.TargetInstances))
	for _, target := range detail.TargetInstances {
		normalized := domain.TargetInstance{
			EstimatedMonthlyCost:    aws.ToString(target.EstimatedMonthlyCost),
			EstimatedMonthlySavings: aws.ToString(target.EstimatedMonthlySavings),
		}
		if details := target.ResourceDetails; details != nil && details.EC2ResourceDetails != nil {
			normalized.InstanceType = aws.ToString(details.EC2ResourceDetails.InstanceType)
		}
		targets = append(targets, normalized)
	}
	return &domain.ModifyDetail{TargetInstances: targets}
}

func normalizeTerminate(detail *types.TerminateRecommendationDetail) *domain.TerminateDetail {
	if detail == nil {
		return nil
	}
	return &domain.TerminateDetail{
		EstimatedMonthlySavings: aws.ToString(detail.EstimatedMonthlySavings),
		CurrencyCode:            aws.ToString(detail.CurrencyCode),
	}
}

// NormalizeForecast reshapes per-period forecast entries and sums their
// mean values. Absent or malformed input yields an empty forecast, not
// an error.
func NormalizeForecast(results []types.ForecastResult) domain.CostForecast {
	var forecast domain.CostForecast

	for _, result := range results {
		if result.TimePeriod == nil || result.MeanValue == nil {
			continue
		}
		mean, err := strconv.ParseFloat(*result.MeanValue, 64)
		if err != nil {
			continue
		}

		forecast.Periods = append(forecast.Periods, domain.ForecastPeriod{
			PeriodStart:    aws.ToString(result.TimePeriod.Start),
			PeriodEnd:      aws.ToString(result.TimePeriod.End),
			ForecastedCost: mean,
		})
		forecast.TotalForecastedCost += mean
	}

	return forecast
}
