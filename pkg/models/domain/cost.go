package domain

import "time"

// CostRecord is a single grouped row taken from one time bucket of a
// cost query. Immutable once created.
type CostRecord struct {
	Date            time.Time `json:"date"`
	Environment     string    `json:"environment"`
	LogicalService  string    `json:"logical_service"`
	ProviderService string    `json:"provider_service"`
	Cost            float64   `json:"cost"`
}

// Recommendation is a provider rightsizing suggestion reshaped into a
// stable internal form. Savings stay string-encoded as the provider
// reports them.
type Recommendation struct {
	AccountID               string             `json:"account_id"`
	CurrentInstance         InstanceDescriptor `json:"current_instance"`
	RightsizingType         string             `json:"rightsizing_type"`
	ModifyRecommendation    *ModifyDetail      `json:"modify_recommendation,omitempty"`
	TerminateRecommendation *TerminateDetail   `json:"terminate_recommendation,omitempty"`
	EstimatedMonthlySavings string             `json:"estimated_monthly_savings"`
}

type InstanceDescriptor struct {
	ResourceID   string `json:"resource_id"`
	InstanceName string `json:"instance_name"`
	InstanceType string `json:"instance_type"`
	Region       string `json:"region"`
	MonthlyCost  string `json:"monthly_cost"`
	CurrencyCode string `json:"currency_code"`
}

type ModifyDetail struct {
	TargetInstances []TargetInstance `json:"target_instances"`
}

type TargetInstance struct {
	InstanceType            string `json:"instance_type"`
	EstimatedMonthlyCost    string `json:"estimated_monthly_cost"`
	EstimatedMonthlySavings string `json:"estimated_monthly_savings"`
}

type TerminateDetail struct {
	EstimatedMonthlySavings string `json:"estimated_monthly_savings"`
	CurrencyCode            string `json:"currency_code"`
}
