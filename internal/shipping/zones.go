// Package shipping maps postal codes onto delivery zones and prices delivery.
package shipping

import "github.com/shopspring/decimal"

// Range is an inclusive span of numeric postal codes.
type Range struct {
	Start int
	End   int
}

func (r Range) contains(code int) bool {
	return code >= r.Start && code <= r.End
}

// Zone is one row of the delivery table.
type Zone struct {
	Key                   string
	Name                  string
	BaseCharge            decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	Ranges                []Range
}

// Contains reports whether any of the zone's ranges holds code.
func (z Zone) Contains(code int) bool {
	for _, r := range z.Ranges {
		if r.contains(code) {
			return true
		}
	}
	return false
}

// ChargeFor returns the delivery charge for an order subtotal.
func (z Zone) ChargeFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(z.FreeShippingThreshold) {
		return decimal.Zero
	}
	return z.BaseCharge
}

func rupees(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// DefaultZones is the delivery table in match order. The first zone containing
// a code wins, so narrow local ranges sit above the wide state ranges. The last
// entry doubles as the fallback for codes nothing else matches.
func DefaultZones() []Zone {
	return []Zone{
		{
			Key:                   "pudukkottai_city",
			Name:                  "Pudukkottai City",
			BaseCharge:            rupees(30),
			FreeShippingThreshold: rupees(500),
			Ranges:                []Range{{622001, 622003}},
		},
		{
			Key:                   "pudukkottai_rural",
			Name:                  "Pudukkottai Rural",
			BaseCharge:            rupees(40),
			FreeShippingThreshold: rupees(600),
			Ranges:                []Range{{622004, 622515}},
		},
		{
			Key:                   "trichy_city",
			Name:                  "Trichy City",
			BaseCharge:            rupees(60),
			FreeShippingThreshold: rupees(800),
			Ranges:                []Range{{620001, 620020}},
		},
		{
			Key:                   "trichy_rural",
			Name:                  "Trichy Rural",
			BaseCharge:            rupees(80),
			FreeShippingThreshold: rupees(1000),
			Ranges:                []Range{{620021, 621220}},
		},
		{
			Key:                   "nearby_districts",
			Name:                  "Nearby Districts",
			BaseCharge:            rupees(100),
			FreeShippingThreshold: rupees(1200),
			Ranges: []Range{
				{621301, 621399},
				{622601, 622699},
				{623001, 623099},
				{610001, 610099},
			},
		},
		{
			Key:                   "tamil_nadu",
			Name:                  "Tamil Nadu",
			BaseCharge:            rupees(120),
			FreeShippingThreshold: rupees(1500),
			Ranges:                []Range{{600000, 659999}},
		},
		{
			Key:                   CatchAllZoneKey,
			Name:                  "Other States",
			BaseCharge:            rupees(150),
			FreeShippingThreshold: rupees(2000),
			Ranges:                []Range{{100000, 999999}},
		},
	}
}

// CatchAllZoneKey names the zone used when no range matches.
const CatchAllZoneKey = "other_states"
