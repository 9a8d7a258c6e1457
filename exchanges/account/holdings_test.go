package account

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidemark-labs/goxchange/types"
)

func TestBalanceDeriveMissing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   Balance
		want Balance
	}{
		{
			name: "total derives from free plus used",
			in:   Balance{Free: "95", Used: "5"},
			want: Balance{Free: "95", Used: "5", Total: "100"},
		},
		{
			name: "free derives from total minus used",
			in:   Balance{Used: "5", Total: "100"},
			want: Balance{Free: "95", Used: "5", Total: "100"},
		},
		{
			name: "used derives from total minus free",
			in:   Balance{Free: "95", Total: "100"},
			want: Balance{Free: "95", Used: "5", Total: "100"},
		},
		{
			name: "decimal strings stay exact",
			in:   Balance{Free: "0.1", Used: "0.2"},
			want: Balance{Free: "0.1", Used: "0.2", Total: "0.3"},
		},
		{
			name: "all components reported stay untouched",
			in:   Balance{Free: "1", Used: "2", Total: "9"},
			want: Balance{Free: "1", Used: "2", Total: "9"},
		},
		{
			name: "a single component cannot derive the rest",
			in:   Balance{Total: "100"},
			want: Balance{Total: "100"},
		},
		{
			name: "zero is a reported value, not an absence",
			in:   Balance{Free: "0", Used: "0"},
			want: Balance{Free: "0", Used: "0", Total: "0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.in
			b.DeriveMissing()
			assert.Equal(t, tt.want.Free, b.Free)
			assert.Equal(t, tt.want.Used, b.Used)
			assert.Equal(t, tt.want.Total, b.Total)
		})
	}
}

func TestBalanceDeriveMissingUnsetPropagates(t *testing.T) {
	t.Parallel()
	var b Balance
	b.DeriveMissing()
	assert.Equal(t, types.Number(""), b.Total, "nothing reported derives nothing")
}
