package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryListValueJoinsWithComma(t *testing.T) {
	v, err := CategoryList{"newsletter", "technical"}.Value()
	require.NoError(t, err)
	assert.Equal(t, "newsletter,technical", v)

	v, err = CategoryList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestCategoryListScan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  CategoryList
	}{
		{name: "string", input: "promotional,newsletter", want: CategoryList{"promotional", "newsletter"}},
		{name: "bytes", input: []byte("technical"), want: CategoryList{"technical"}},
		{name: "empty", input: "", want: CategoryList{}},
		{name: "null", input: nil, want: CategoryList{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got CategoryList
			require.NoError(t, got.Scan(tt.input))
			assert.Equal(t, tt.want, got)
		})
	}

	var got CategoryList
	assert.Error(t, got.Scan(42))
}

func TestCategoryListRoundTripReproducesInputSet(t *testing.T) {
	inputs := [][]string{
		{"promotional"},
		{"technical", "newsletter"},
		{"newsletter", "promotional", "technical"},
	}
	for _, in := range inputs {
		stored, err := CategoryList(in).Value()
		require.NoError(t, err)

		var back CategoryList
		require.NoError(t, back.Scan(stored))
		assert.ElementsMatch(t, in, []string(back))
	}
}

func TestCategoryListContainsIsExact(t *testing.T) {
	l := CategoryList{"newsletter", "technical"}
	assert.True(t, l.Contains("newsletter"))
	assert.False(t, l.Contains("Newsletter"))
	assert.False(t, l.Contains("news"))
	assert.False(t, l.Contains(""))
}

func TestIsAllowedCategory(t *testing.T) {
	for _, c := range AllowedCategories {
		assert.True(t, IsAllowedCategory(c), c)
	}
	assert.False(t, IsAllowedCategory("sports"))
	assert.False(t, IsAllowedCategory("Promotional"))
}

func TestBaseBeforeCreateAssignsUUID(t *testing.T) {
	var b Base
	require.NoError(t, b.BeforeCreate(nil))
	_, err := uuid.Parse(b.ID)
	assert.NoError(t, err)

	fixed := Base{ID: "keep-me"}
	require.NoError(t, fixed.BeforeCreate(nil))
	assert.Equal(t, "keep-me", fixed.ID)
}

func TestSubscriberTableName(t *testing.T) {
	assert.Equal(t, "subscribers", SubscriberModel{}.TableName())
}
