package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "1500", want: 1500},
		{in: "15.00", want: 1500},
		{in: "15.0", want: 1500},
		{in: "15.", want: 1500},
		{in: "19.99", want: 1999},
		{in: "19.999", want: 1999},
		{in: ".5", want: 50},
		{in: " 42 ", want: 42},
		{in: "", wantErr: true},
		{in: "-3", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.2x", wantErr: true},
		{in: "92233720368547758.07", want: math.MaxInt64},
		{in: "92233720368547758.08", wantErr: true},
		{in: "92233720368547759", want: 92233720368547759},
		{in: "92233720368547759.00", wantErr: true},
		{in: "9223372036854775808", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidArgument))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePrice_MajorAndMinorUnitsAgree(t *testing.T) {
	a, err := ParsePrice("15.00")
	assert.NoError(t, err)
	b, err := ParsePrice("1500")
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}
