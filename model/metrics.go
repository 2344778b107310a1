package model

import (
	"encoding/json"

	U "campaigniq/util"
)

// OptionalFloat is an explicit missing-value marker for derived
// metrics. A zero denominator yields an unset value serialized as JSON
// null, never 0: a CPA of 0 means free acquisition, not "no data".
type OptionalFloat struct {
	Value float64
	Valid bool
}

// OptFloat returns a set OptionalFloat.
func OptFloat(value float64) OptionalFloat {
	return OptionalFloat{Value: value, Valid: true}
}

// NullFloat returns an unset OptionalFloat.
func NullFloat() OptionalFloat {
	return OptionalFloat{}
}

func (o OptionalFloat) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

func (o *OptionalFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = OptionalFloat{}
		return nil
	}
	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	*o = OptionalFloat{Value: value, Valid: true}
	return nil
}

// ratio builds an OptionalFloat from numerator/denominator, unset when
// the denominator is zero.
func ratio(numerator, denominator float64) OptionalFloat {
	value, ok := U.SafeDivide(numerator, denominator)
	if !ok {
		return NullFloat()
	}
	return OptFloat(value)
}

// EngagementRate is (likes + comments) / reach, unset when reach is 0.
func EngagementRate(likes, comments, reach int64) OptionalFloat {
	return ratio(float64(likes+comments), float64(reach))
}

// ConversionRate is orders / reach. Click data is absent upstream, so
// this is a reach-proxy conversion rate, not a true funnel rate.
func ConversionRate(orders, reach int64) OptionalFloat {
	return ratio(float64(orders), float64(reach))
}

// CostPerAcquisition is payout / orders, unset when there are no orders.
func CostPerAcquisition(totalPayout float64, orders int64) OptionalFloat {
	return ratio(totalPayout, float64(orders))
}

// CostPerMille is payout per thousand impressions, unset when reach is 0.
func CostPerMille(totalPayout float64, reach int64) OptionalFloat {
	cpm := ratio(totalPayout, float64(reach))
	if !cpm.Valid {
		return cpm
	}
	return OptFloat(cpm.Value * 1000)
}

// RevenuePerRupee is revenue / payout, unset when payout is 0.
func RevenuePerRupee(revenue, totalPayout float64) OptionalFloat {
	return ratio(revenue, totalPayout)
}
