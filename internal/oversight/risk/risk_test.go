package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyDeadline(t *testing.T) {
	cases := []struct {
		days int
		want DeadlineTier
	}{
		{-1, DeadlineCritical}, // overdue is still reported as critical
		{0, DeadlineCritical},
		{7, DeadlineCritical},
		{8, DeadlineWarning},
		{15, DeadlineWarning},
		{16, DeadlineNormal},
		{90, DeadlineNormal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyDeadline(tc.days), "days=%d", tc.days)
	}
}

func TestClassifyTenure(t *testing.T) {
	cases := []struct {
		days int
		want TenureTier
	}{
		{0, TenureLow},
		{365, TenureLow},
		{366, TenureMedium},
		{730, TenureMedium},
		{731, TenureHigh},
		{1500, TenureHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyTenure(tc.days), "days=%d", tc.days)
	}
}
