package speakupclient_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openhrstack/speakup_app/internal/dto"
	"github.com/openhrstack/speakup_app/pkg/speakupclient"
)

func TestSanitizeFilters(t *testing.T) {
	tests := []struct {
		name string
		raw  speakupclient.RawFilters
		want dto.SearchParams
	}{
		{
			name: "mixed raw control values",
			raw: speakupclient.RawFilters{
				IsAnonymous:        "1",
				StatusID:           "",
				TypeID:             nil,
				CommonSearchString: "  abc ",
			},
			want: dto.SearchParams{
				IsAnonymous:        1,
				CompanyID:          -1,
				StatusID:           -1,
				TypeID:             -1,
				CommonSearchString: "abc",
			},
		},
		{
			name: "numeric types pass through",
			raw: speakupclient.RawFilters{
				IsAnonymous: 0,
				CompanyID:   float64(7),
				StatusID:    int64(3),
				TypeID:      2,
			},
			want: dto.SearchParams{
				IsAnonymous: 0,
				CompanyID:   7,
				StatusID:    3,
				TypeID:      2,
			},
		},
		{
			name: "garbage falls back to unset",
			raw: speakupclient.RawFilters{
				IsAnonymous:        "yes",
				CompanyID:          "  ",
				StatusID:           []string{"3"},
				TypeID:             "3x",
				CommonSearchString: 42,
			},
			want: dto.SearchParams{
				IsAnonymous: -1,
				CompanyID:   -1,
				StatusID:    -1,
				TypeID:      -1,
			},
		},
		{
			name: "empty input is fully unset",
			raw:  speakupclient.RawFilters{},
			want: dto.SearchParams{
				IsAnonymous: -1,
				CompanyID:   -1,
				StatusID:    -1,
				TypeID:      -1,
			},
		},
		{
			name: "whitespace padded numerics parse",
			raw: speakupclient.RawFilters{
				StatusID: " 12 ",
				TypeID:   "-1",
			},
			want: dto.SearchParams{
				IsAnonymous: -1,
				CompanyID:   -1,
				StatusID:    12,
				TypeID:      -1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, speakupclient.SanitizeFilters(tt.raw))
		})
	}
}
