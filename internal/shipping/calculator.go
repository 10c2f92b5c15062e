package shipping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// StorePickupZone is the zone name reported for pickup orders.
const StorePickupZone = "Store Pickup"

var ErrInvalidPostalCode = errors.New("invalid postal code")

// Quote is the outcome of a shipping calculation.
type Quote struct {
	Charge   decimal.Decimal `json:"charge"`
	ZoneName string          `json:"zone_name"`
	ZoneKey  string          `json:"zone_key,omitempty"`
	Free     bool            `json:"free"`
}

// Calculator prices delivery against an ordered zone table.
type Calculator struct {
	zones    []Zone
	fallback Zone
}

// NewCalculator validates zones and builds a calculator over them.
func NewCalculator(zones []Zone) (*Calculator, error) {
	if err := ValidateZones(zones); err != nil {
		return nil, err
	}
	own := make([]Zone, len(zones))
	copy(own, zones)
	return &Calculator{zones: own, fallback: own[len(own)-1]}, nil
}

// NewDefaultCalculator builds a calculator over DefaultZones.
func NewDefaultCalculator() *Calculator {
	calc, err := NewCalculator(DefaultZones())
	if err != nil {
		panic(fmt.Sprintf("default shipping zones invalid: %v", err))
	}
	return calc
}

// Zones returns a copy of the table in match order.
func (c *Calculator) Zones() []Zone {
	out := make([]Zone, len(c.zones))
	copy(out, c.zones)
	return out
}

// ClassifyZone resolves postalCode to its zone.
func (c *Calculator) ClassifyZone(postalCode string) (Zone, error) {
	code, err := ParsePostalCode(postalCode)
	if err != nil {
		return Zone{}, err
	}
	for _, zone := range c.zones {
		if zone.Contains(code) {
			return zone, nil
		}
	}
	return c.fallback, nil
}

// CalculateShippingCharge prices delivery. Pickup is always free and never
// looks at the postal code.
func (c *Calculator) CalculateShippingCharge(postalCode string, subtotal decimal.Decimal, method enums.DeliveryMethod) (Quote, error) {
	if method == enums.DeliveryMethodPickup {
		return Quote{Charge: decimal.Zero, ZoneName: StorePickupZone, Free: true}, nil
	}
	if err := checkSubtotal(subtotal); err != nil {
		return Quote{}, err
	}
	zone, err := c.ClassifyZone(postalCode)
	if err != nil {
		return Quote{}, err
	}
	charge := zone.ChargeFor(subtotal)
	return Quote{
		Charge:   charge,
		ZoneName: zone.Name,
		ZoneKey:  zone.Key,
		Free:     charge.IsZero(),
	}, nil
}

// ParsePostalCode accepts base-10 digits with surrounding whitespace.
func ParsePostalCode(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, invalidPostalCode(raw)
	}
	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return 0, invalidPostalCode(raw)
		}
	}
	code, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, invalidPostalCode(raw)
	}
	return code, nil
}

func invalidPostalCode(raw string) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidPostalCode, "please enter a valid pincode").WithDetails(map[string]any{
		"postal_code": raw,
	})
}
