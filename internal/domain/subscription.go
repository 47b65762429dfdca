package domain

// SubscriptionTier is a subscription level controlling message quota and
// voice access.
type SubscriptionTier string

const (
	TierFree  SubscriptionTier = "free"
	TierBasic SubscriptionTier = "basic"
	TierPlus  SubscriptionTier = "plus"
	TierPro   SubscriptionTier = "pro"
)

// OrderedTiers lists tiers from most to least restrictive.
var OrderedTiers = []SubscriptionTier{TierFree, TierBasic, TierPlus, TierPro}

// ParseTier maps a stored tier string to a SubscriptionTier. Anything
// unknown resolves to free so a bad row never grants access.
func ParseTier(s string) SubscriptionTier {
	switch SubscriptionTier(s) {
	case TierBasic:
		return TierBasic
	case TierPlus:
		return TierPlus
	case TierPro:
		return TierPro
	default:
		return TierFree
	}
}

// Rank returns the tier's position in the upgrade ladder, free being 0.
func (t SubscriptionTier) Rank() int {
	for i, tier := range OrderedTiers {
		if tier == t {
			return i
		}
	}
	return 0
}

// QuotaPeriod scopes a message ceiling in time.
type QuotaPeriod string

const (
	// QuotaPeriodLifetime counts every user message ever sent.
	QuotaPeriodLifetime QuotaPeriod = "lifetime"
	// QuotaPeriodMonthly counts user messages since the start of the
	// current UTC calendar month.
	QuotaPeriodMonthly QuotaPeriod = "monthly"
)

// TierQuota defines the user-message allowance for a subscription tier.
type TierQuota struct {
	Limit     int
	Period    QuotaPeriod
	Unlimited bool
}

// TierQuotas maps each tier to its message allowance. The free tier gets a
// small lifetime trial allowance; paid tiers share a monthly ceiling.
var TierQuotas = map[SubscriptionTier]TierQuota{
	TierFree:  {Limit: 2, Period: QuotaPeriodLifetime},
	TierBasic: {Limit: 500, Period: QuotaPeriodMonthly},
	TierPlus:  {Limit: 500, Period: QuotaPeriodMonthly},
	TierPro:   {Limit: 500, Period: QuotaPeriodMonthly},
}

// QuotaForTier returns the quota for a tier, falling back to the free tier
// for anything unknown.
func QuotaForTier(tier SubscriptionTier) TierQuota {
	if q, ok := TierQuotas[tier]; ok {
		return q
	}
	return TierQuotas[TierFree]
}

// QuotaUsage reports consumption against a tier allowance.
type QuotaUsage struct {
	Tier      SubscriptionTier `json:"tier"`
	Used      int              `json:"used"`
	Limit     int              `json:"limit"`
	Period    QuotaPeriod      `json:"period"`
	Unlimited bool             `json:"unlimited"`
}
