package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStateFor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		quantity int
		want     StockState
	}{
		{quantity: 5, want: StockState{Quantity: 5, Status: StockInStock, Visibility: VisibilityVisible, PostStatus: StatusPublish}},
		{quantity: 1, want: StockState{Quantity: 1, Status: StockInStock, Visibility: VisibilityVisible, PostStatus: StatusPublish}},
		{quantity: 0, want: StockState{Quantity: 0, Status: StockOutOfStock, Visibility: VisibilityHidden, PostStatus: StatusDraft}},
		{quantity: -3, want: StockState{Quantity: 0, Status: StockOutOfStock, Visibility: VisibilityHidden, PostStatus: StatusDraft}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, StockStateFor(tc.quantity), "quantity %d", tc.quantity)
	}
}

func TestQuantityValue(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"":     0,
		"7":    7,
		" 12 ": 12,
		"3.9":  3,
		"many": 0,
		"-2":   -2,
		"0":    0,

		"99999999999999999999":  math.MaxInt,
		"-99999999999999999999": math.MinInt,
		"1e30":                  math.MaxInt,
		"-1e30":                 math.MinInt,
		"1e400":                 math.MaxInt,
		"+Inf":                  math.MaxInt,
		"NaN":                   0,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ProductRecord{Quantity: raw}.QuantityValue(), "quantity %q", raw)
	}
}

func TestHugeQuantityStaysInStock(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"99999999999999999999", "1e30", "+Inf"} {
		state := StockStateFor(ProductRecord{Quantity: raw}.QuantityValue())
		assert.Equal(t, StockInStock, state.Status, raw)
		assert.Equal(t, VisibilityVisible, state.Visibility, raw)
	}
	assert.Equal(t, StockOutOfStock, StockStateFor(ProductRecord{Quantity: "NaN"}.QuantityValue()).Status)
}

func TestPictureKinds(t *testing.T) {
	t.Parallel()

	assert.Equal(t, PictureAbsent, NewPicture(nil).Kind())
	assert.Equal(t, PictureAbsent, NewPicture([]string{""}).Kind())
	assert.Equal(t, PictureSingle, NewPicture([]string{"a"}).Kind())
	assert.Equal(t, PictureMultiple, NewPicture([]string{"a", "b"}).Kind())

	primary, ok := NewPicture([]string{"a", "b", "c"}).Primary()
	assert.True(t, ok)
	assert.Equal(t, "a", primary)
	assert.Equal(t, []string{"b", "c"}, NewPicture([]string{"a", "b", "c"}).Gallery())

	_, ok = NewPicture(nil).Primary()
	assert.False(t, ok)
}

func TestFailureMessage(t *testing.T) {
	t.Parallel()

	assert.Empty(t, FailureMessage(nil))
	assert.Equal(t, FeedUnreachableMessage, FailureMessage(fmt.Errorf("fetch feed: %w", ErrFeedUnreachable)))
	assert.Equal(t, "boom", FailureMessage(errors.New("boom")))
}
