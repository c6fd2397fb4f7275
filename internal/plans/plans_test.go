package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name  string
		tier  Tier
		kind  ResourceKind
		count int
		want  bool
	}{
		{
			name:  "квота не исчерпана",
			tier:  TierPaid,
			kind:  ResourceCards,
			count: 4,
			want:  true,
		},
		{
			name:  "квота исчерпана ровно",
			tier:  TierPaid,
			kind:  ResourceCards,
			count: 5,
			want:  false,
		},
		{
			name:  "безлимитный ресурс при любом количестве",
			tier:  TierPaid,
			kind:  ResourcePresentations,
			count: 100500,
			want:  true,
		},
		{
			name:  "пробный период строже оплаченного",
			tier:  TierTrial,
			kind:  ResourceCards,
			count: 1,
			want:  false,
		},
		{
			name:  "неизвестный план ничего не разрешает",
			tier:  Tier("enterprise"),
			kind:  ResourceCards,
			count: 0,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allows(tt.tier, tt.kind, tt.count))
		})
	}
}

func TestQuota_UnknownResource(t *testing.T) {
	assert.Equal(t, 0, Quota(TierTrial, ResourceKind("widgets")))
}
