package domain

type PlanType string

const (
	PlanBasic   PlanType = "basic"
	PlanPremium PlanType = "premium"
)

func (p PlanType) IsValid() bool {
	return p == PlanBasic || p == PlanPremium
}
