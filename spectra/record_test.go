package spectra

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestWindowMetrics_JSONFieldNames pins the serialized names. Downstream
// sinks consume them verbatim, so a rename is a breaking change even
// when the Go identifiers stay put.
func TestWindowMetrics_JSONFieldNames(t *testing.T) {
	metrics := WindowMetrics{
		DeltaPower:        1.5,
		ThetaPower:        2.5,
		AlphaPower:        3.5,
		BetaPower:         4.5,
		GammaPower:        5.5,
		TotalPower:        17.5,
		ThetaContribution: 14.3,
		ThetaRelative:     0.143,
		ThetaSNRBroad:     0.167,
		ThetaSNRPeak:      2.1,
	}

	data, err := json.Marshal(&metrics)
	require.NoError(t, err)

	var decoded map[string]float64
	require.NoError(t, json.Unmarshal(data, &decoded))

	wantKeys := []string{
		"Delta power",
		"Theta power",
		"Alpha power",
		"Beta power",
		"Gamma power",
		"Total variance (power)",
		"Theta contribution",
		"Theta relative",
		"Theta SNR broad",
		"Theta SNR peak",
	}

	require.Len(t, decoded, len(wantKeys))
	for _, key := range wantKeys {
		assert.Contains(t, decoded, key)
	}

	assert.Equal(t, 1.5, decoded["Delta power"])
	assert.Equal(t, 2.5, decoded["Theta power"])
	assert.Equal(t, 17.5, decoded["Total variance (power)"])
	assert.Equal(t, 14.3, decoded["Theta contribution"])
	assert.Equal(t, 2.1, decoded["Theta SNR peak"])
}

func TestWindowMetrics_Fields(t *testing.T) {
	metrics := WindowMetrics{
		DeltaPower:        10,
		ThetaPower:        30,
		AlphaPower:        5,
		BetaPower:         3,
		GammaPower:        2,
		TotalPower:        50,
		ThetaContribution: 60,
		ThetaRelative:     0.6,
		ThetaSNRBroad:     1.5,
		ThetaSNRPeak:      4.0,
	}

	fields := metrics.Fields()

	require.Len(t, fields, 10)
	assert.Equal(t, 10.0, fields["Delta power"])
	assert.Equal(t, 30.0, fields["Theta power"])
	assert.Equal(t, 5.0, fields["Alpha power"])
	assert.Equal(t, 3.0, fields["Beta power"])
	assert.Equal(t, 2.0, fields["Gamma power"])
	assert.Equal(t, 50.0, fields["Total variance (power)"])
	assert.Equal(t, 60.0, fields["Theta contribution"])
	assert.Equal(t, 0.6, fields["Theta relative"])
	assert.Equal(t, 1.5, fields["Theta SNR broad"])
	assert.Equal(t, 4.0, fields["Theta SNR peak"])
}

func TestWindowResult_Usable(t *testing.T) {
	tests := []struct {
		name     string
		result   WindowResult
		minScore float64
		want     bool
	}{
		{
			name: "non-finite windows are never usable",
			result: WindowResult{
				Decision: WindowRejectNonFinite,
				Metrics:  &WindowMetrics{},
				Quality:  &QualityReport{QualityScore: 1.0},
			},
			minScore: 0.0,
			want:     false,
		},
		{
			name: "accepted window above the threshold",
			result: WindowResult{
				Decision: WindowAccept,
				Metrics:  &WindowMetrics{},
				Quality:  &QualityReport{QualityScore: 0.9},
			},
			minScore: 0.5,
			want:     true,
		},
		{
			name: "accepted window below the threshold",
			result: WindowResult{
				Decision: WindowAccept,
				Metrics:  &WindowMetrics{},
				Quality:  &QualityReport{QualityScore: 0.3},
			},
			minScore: 0.5,
			want:     false,
		},
		{
			name: "constant-flagged window still usable when it clears the score",
			result: WindowResult{
				Decision: WindowRejectConstant,
				Metrics:  &WindowMetrics{},
				Quality:  &QualityReport{QualityScore: 0.5},
			},
			minScore: 0.5,
			want:     true,
		},
		{
			name: "missing quality report defers to the metrics",
			result: WindowResult{
				Decision: WindowAccept,
				Metrics:  &WindowMetrics{},
			},
			minScore: 0.9,
			want:     true,
		},
		{
			name: "missing metrics are never usable",
			result: WindowResult{
				Decision: WindowAccept,
				Quality:  &QualityReport{QualityScore: 1.0},
			},
			minScore: 0.0,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Usable(tt.minScore))
		})
	}
}

func TestWindowAdmissionDecision_String(t *testing.T) {
	assert.Equal(t, "accept", WindowAccept.String())
	assert.Equal(t, "reject_constant", WindowRejectConstant.String())
	assert.Equal(t, "reject_non_finite", WindowRejectNonFinite.String())
}
