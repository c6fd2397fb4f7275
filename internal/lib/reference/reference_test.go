package reference

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParse(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	raw := Encode("550e8400-e29b-41d4-a716-446655440000", PurchaseFirstYear, issuedAt)

	assert.Equal(t, "user-550e8400-e29b-41d4-a716-446655440000-subscription-first-year-1748773800000", raw)

	ref, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", ref.UserUID)
	assert.Equal(t, PurchaseFirstYear, ref.PurchaseType)
	assert.Equal(t, issuedAt.UnixMilli(), ref.IssuedAt.UnixMilli())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
		wantUID string
	}{
		{
			name:    "корректная ссылка renewal",
			raw:     "user-abc-subscription-renewal-1700000000000",
			wantUID: "abc",
		},
		{
			name:    "отсутствует сегмент subscription",
			raw:     "user-abc-renewal-1700000000000",
			wantErr: true,
		},
		{
			name:    "неизвестный тип покупки",
			raw:     "user-abc-subscription-lifetime-1700000000000",
			wantErr: true,
		},
		{
			name:    "нечисловая метка времени",
			raw:     "user-abc-subscription-renewal-notatime",
			wantErr: true,
		},
		{
			name:    "пустая строка",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidReference)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUID, ref.UserUID)
		})
	}
}
