package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewOrderNumber builds a customer-facing reference such as BH-20261015-3F9A12C0.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("BH-%s-%s", now.UTC().Format("20060102"), suffix)
}
