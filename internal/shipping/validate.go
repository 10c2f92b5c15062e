package shipping

import (
	"fmt"

	"go.uber.org/multierr"
)

const (
	catchAllStart = 100000
	catchAllEnd   = 999999
)

// ValidateZones checks a zone table and reports every problem at once.
func ValidateZones(zones []Zone) error {
	if len(zones) == 0 {
		return fmt.Errorf("shipping zones: table is empty")
	}

	var errs error
	seen := make(map[string]struct{}, len(zones))
	for i, zone := range zones {
		if zone.Key == "" || zone.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("zone %d: key and name are required", i))
		}
		if _, dup := seen[zone.Key]; dup {
			errs = multierr.Append(errs, fmt.Errorf("zone %q: duplicate key", zone.Key))
		}
		seen[zone.Key] = struct{}{}
		if zone.BaseCharge.IsNegative() || zone.FreeShippingThreshold.IsNegative() {
			errs = multierr.Append(errs, fmt.Errorf("zone %q: money values must be non-negative", zone.Key))
		}
		if len(zone.Ranges) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("zone %q: at least one range is required", zone.Key))
		}
		for _, r := range zone.Ranges {
			if r.Start > r.End {
				errs = multierr.Append(errs, fmt.Errorf("zone %q: range %d-%d is inverted", zone.Key, r.Start, r.End))
			}
		}
		if i > 0 {
			prev := zones[i-1]
			if zone.BaseCharge.LessThan(prev.BaseCharge) || zone.FreeShippingThreshold.LessThan(prev.FreeShippingThreshold) {
				errs = multierr.Append(errs, fmt.Errorf("zone %q: charges must not decrease down the table", zone.Key))
			}
		}
	}

	last := zones[len(zones)-1]
	if !coversSpan(last, catchAllStart, catchAllEnd) {
		errs = multierr.Append(errs, fmt.Errorf("zone %q: last zone must cover %d-%d", last.Key, catchAllStart, catchAllEnd))
	}
	return errs
}

func coversSpan(z Zone, start, end int) bool {
	for _, r := range z.Ranges {
		if r.Start <= start && r.End >= end {
			return true
		}
	}
	return false
}
