package cart

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pastry(price string) Product {
	return Product{ID: uuid.New(), Name: "Puff", Category: enums.ProductCategoryPastries, Price: dec(price)}
}

func cake(price string) Product {
	return Product{ID: uuid.New(), Name: "Black Forest", Category: enums.ProductCategoryCakes, Price: dec(price)}
}

func TestIsValidQuantity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		product Product
		qty     string
		want    bool
	}{
		{"pastry quarter", pastry("10"), "0.25", true},
		{"pastry below quarter", pastry("10"), "0.2", false},
		{"pastry off-grid still valid", pastry("10"), "0.3", true},
		{"pastry zero", pastry("10"), "0", false},
		{"pastry negative", pastry("10"), "-1", false},
		{"cake one", cake("500"), "1", true},
		{"cake fraction", cake("500"), "1.5", false},
		{"cake zero", cake("500"), "0", false},
		{"cake below one", cake("500"), "0.75", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsValidQuantity(tc.product, dec(tc.qty)))
		})
	}
}

func TestNormalizeQuantity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		product Product
		raw     string
		want    string
	}{
		{"pastry rounds down", pastry("10"), "0.1", "0"},
		{"pastry rounds to quarter", pastry("10"), "0.3", "0.25"},
		{"pastry half rounds away from zero", pastry("10"), "0.125", "0.25"},
		{"pastry keeps grid value", pastry("10"), "1.75", "1.75"},
		{"pastry rounds up", pastry("10"), "2.9", "3"},
		{"cake truncates", cake("10"), "2.9", "2"},
		{"cake truncates below one", cake("10"), "0.9", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeQuantity(tc.product, dec(tc.raw))
			assert.True(t, got.Equal(dec(tc.want)), "expected %s got %s", tc.want, got)
		})
	}
}

func TestAddToCartRejectsTinyPastry(t *testing.T) {
	t.Parallel()

	p := pastry("40")
	_, err := AddToCart(Cart{}, p, dec("0.1"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "minimum quantity is 0.25", typed.Message())
}

func TestAddToCartWholeNumberMessage(t *testing.T) {
	t.Parallel()

	_, err := AddToCart(Cart{}, cake("500"), dec("0.5"))
	require.Error(t, err)
	assert.Equal(t, "please enter a whole number quantity for this product", pkgerrors.As(err).Message())
}

func TestAddToCartMergesLines(t *testing.T) {
	t.Parallel()

	p := pastry("40")
	c, err := AddToCart(Cart{}, p, dec("1"))
	require.NoError(t, err)
	c, err = AddToCart(c, p, dec("0.5"))
	require.NoError(t, err)

	require.Equal(t, 1, c.Len())
	line, ok := c.Line(p.ID)
	require.True(t, ok)
	assert.True(t, line.Quantity.Equal(dec("1.5")), "got %s", line.Quantity)
}

func TestAddToCartTruncatesNonPastry(t *testing.T) {
	t.Parallel()

	p := cake("350")
	c, err := AddToCart(Cart{}, p, dec("2.7"))
	require.NoError(t, err)
	line, _ := c.Line(p.ID)
	assert.True(t, line.Quantity.Equal(dec("2")))
}

func TestAddToCartDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	p := cake("100")
	original, err := AddToCart(Cart{}, p, dec("1"))
	require.NoError(t, err)

	next, err := AddToCart(original, p, dec("2"))
	require.NoError(t, err)

	before, _ := original.Line(p.ID)
	after, _ := next.Line(p.ID)
	assert.True(t, before.Quantity.Equal(dec("1")))
	assert.True(t, after.Quantity.Equal(dec("3")))
}

func TestAddToCartRejectedAddKeepsExistingLine(t *testing.T) {
	t.Parallel()

	p := cake("100")
	c, err := AddToCart(Cart{}, p, dec("2"))
	require.NoError(t, err)

	unchanged, err := AddToCart(c, p, dec("-5"))
	require.Error(t, err)
	line, ok := unchanged.Line(p.ID)
	require.True(t, ok)
	assert.True(t, line.Quantity.Equal(dec("2")))
}

func TestUpdateQuantity(t *testing.T) {
	t.Parallel()

	p := pastry("20")
	c, err := AddToCart(Cart{}, p, dec("1"))
	require.NoError(t, err)

	c, err = UpdateQuantity(c, p.ID, dec("2.3"))
	require.NoError(t, err)
	line, _ := c.Line(p.ID)
	assert.True(t, line.Quantity.Equal(dec("2.25")))

	_, err = UpdateQuantity(c, p.ID, dec("0"))
	assert.True(t, errors.Is(err, ErrInvalidQuantity))

	_, err = UpdateQuantity(c, uuid.New(), dec("1"))
	assert.True(t, errors.Is(err, ErrProductNotFound))
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestRemoveFromCartIsIdempotent(t *testing.T) {
	t.Parallel()

	a, b := cake("10"), pastry("20")
	c, _ := AddToCart(Cart{}, a, dec("1"))
	c, _ = AddToCart(c, b, dec("1"))

	c = RemoveFromCart(c, a.ID)
	assert.Equal(t, 1, c.Len())
	c = RemoveFromCart(c, a.ID)
	assert.Equal(t, 1, c.Len())
	c = RemoveFromCart(c, uuid.New())
	assert.Equal(t, 1, c.Len())

	assert.True(t, ClearCart(c).IsEmpty())
}

func TestComputeSubtotalRoundsPerLine(t *testing.T) {
	t.Parallel()

	c := Cart{Lines: []Line{
		{Product: pastry("33.33"), Quantity: dec("0.25")}, // 8.3325 -> 8.33
		{Product: cake("10.005"), Quantity: dec("1")},     // 10.005 -> 10.01
		{Product: cake("450"), Quantity: dec("2")},
	}}
	assert.True(t, ComputeSubtotal(c).Equal(dec("918.34")), "got %s", ComputeSubtotal(c))
	assert.True(t, ComputeSubtotal(Cart{}).Equal(decimal.Zero))
}

func TestComputeSubtotalOrderInvariant(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{Product: pastry("12.34"), Quantity: dec("1.75")},
		{Product: cake("99.99"), Quantity: dec("3")},
		{Product: pastry("7.77"), Quantity: dec("0.25")},
	}
	forward := ComputeSubtotal(Cart{Lines: lines})
	reversed := ComputeSubtotal(Cart{Lines: []Line{lines[2], lines[1], lines[0]}})
	assert.True(t, forward.Equal(reversed))
}

func TestQuantityBoundaryParsers(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := QuantityFromFloat(v)
		assert.True(t, errors.Is(err, ErrInvalidQuantity), "value %v", v)
	}
	q, err := QuantityFromFloat(1.5)
	require.NoError(t, err)
	assert.True(t, q.Equal(dec("1.5")))

	_, err = ParseQuantity("abc")
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
	q, err = ParseQuantity(" 0.75 ")
	require.NoError(t, err)
	assert.True(t, q.Equal(dec("0.75")))
}

func TestQuantityCap(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"1e30000000", "1E7", "1001", "0.0000000000000000000000001", "1" + strings.Repeat("0", 40)} {
		start := time.Now()
		_, err := ParseQuantity(raw)
		assert.True(t, errors.Is(err, ErrInvalidQuantity), "input %q", raw)
		assert.Less(t, time.Since(start), 100*time.Millisecond, "input %q", raw)
	}

	q, err := ParseQuantity("1000")
	require.NoError(t, err)
	c, err := AddToCart(Cart{}, cake("500"), q)
	require.NoError(t, err)
	assert.True(t, ComputeSubtotal(c).Equal(dec("500000")))

	_, err = AddToCart(c, c.Lines[0].Product, dec("1"))
	assert.Equal(t, "quantity must be at most 1000", pkgerrors.As(err).Message())

	huge, err := QuantityFromFloat(1e300)
	require.NoError(t, err)
	_, err = AddToCart(Cart{}, pastry("10"), huge)
	assert.True(t, errors.Is(err, ErrInvalidQuantity))
	assert.False(t, IsValidQuantity(cake("500"), dec("1001")))
}

func TestNonPastryNeverFractional(t *testing.T) {
	t.Parallel()

	p := cake("25")
	c := Cart{}
	for _, raw := range []string{"1.9", "0.4", "3.01", "2", "7.99", "-2"} {
		next, err := AddToCart(c, p, dec(raw))
		if err != nil {
			continue
		}
		c = next
		line, _ := c.Line(p.ID)
		require.True(t, line.Quantity.IsInteger(), "quantity %s", line.Quantity)
		require.True(t, line.Quantity.GreaterThanOrEqual(one))
	}
}

func TestPastryAlwaysOnQuarterGrid(t *testing.T) {
	t.Parallel()

	p := pastry("25")
	c := Cart{}
	for _, raw := range []string{"0.1", "0.3", "0.49", "1.13", "0.8", "2.62"} {
		next, err := AddToCart(c, p, dec(raw))
		if err != nil {
			continue
		}
		c = next
		line, _ := c.Line(p.ID)
		require.True(t, line.Quantity.Mul(four).IsInteger(), "quantity %s", line.Quantity)
		require.True(t, line.Quantity.GreaterThanOrEqual(quarter))
	}
}
