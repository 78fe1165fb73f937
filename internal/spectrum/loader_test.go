package spectrum

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Layouts(t *testing.T) {
	tests := []struct {
		name          string
		layout        Layout
		input         string
		wantDepth     float64
		wantDepthErr  *float64
		wantWlErr     *float64
		wantPointsLen int
	}{
		{
			name:          "ppm converts depth and error",
			layout:        LayoutPPM,
			input:         "# wl wl_err depth err\n1.0 0.01 12000 150\n1.1 0.01 12100 160\n",
			wantDepth:     0.012,
			wantDepthErr:  ptr(0.00015),
			wantWlErr:     ptr(0.01),
			wantPointsLen: 2,
		},
		{
			name:          "no errors leaves both absent",
			layout:        LayoutNoErrors,
			input:         "0.8 0.0205\n\n0.9 0.0207\n",
			wantDepth:     0.0205,
			wantPointsLen: 2,
		},
		{
			name:          "full ignores transit count",
			layout:        LayoutFull,
			input:         "0.55 0.05 0.0210 0.0002 3\n",
			wantDepth:     0.0210,
			wantDepthErr:  ptr(0.0002),
			wantWlErr:     ptr(0.05),
			wantPointsLen: 1,
		},
		{
			name:          "full without transit count",
			layout:        LayoutFull,
			input:         "1.0 0.01 0.001 0.0001\n1.1 0.01 0.0011 0.0001 2\n",
			wantDepth:     0.001,
			wantDepthErr:  ptr(0.0001),
			wantWlErr:     ptr(0.01),
			wantPointsLen: 2,
		},
		{
			name:          "depth error only",
			layout:        LayoutDepthErr,
			input:         "2.5 0.0213 0.0001\n",
			wantDepth:     0.0213,
			wantDepthErr:  ptr(0.0001),
			wantPointsLen: 1,
		},
		{
			name:          "zero error stays present",
			layout:        LayoutDepthErr,
			input:         "2.5 0.0213 0\n",
			wantDepth:     0.0213,
			wantDepthErr:  ptr(0),
			wantPointsLen: 1,
		},
		{
			name:          "nan error is absent",
			layout:        LayoutDepthErr,
			input:         "2.5 0.0213 nan\n",
			wantDepth:     0.0213,
			wantPointsLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Load(strings.NewReader(tt.input), "test", tt.layout)
			require.NoError(t, err)
			require.Len(t, spec.Points, tt.wantPointsLen)

			p := spec.Points[0]
			assert.InDelta(t, tt.wantDepth, p.Depth, 1e-12)
			assertOptional(t, tt.wantDepthErr, p.DepthErr)
			assertOptional(t, tt.wantWlErr, p.WavelengthErr)
		})
	}
}

func TestLayoutRequired(t *testing.T) {
	assert.Equal(t, 4, LayoutFull.required())
	assert.Equal(t, 4, LayoutPPM.required())
	assert.Equal(t, 2, LayoutNoErrors.required())
	assert.Equal(t, 0, Layout{Columns: []Column{ColIgnore}}.required())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		input   string
		column  string
		line    int
		wantErr error
	}{
		{
			name:    "too few columns",
			layout:  LayoutFull,
			input:   "# header\n0.55 0.05 0.0210\n",
			line:    2,
			wantErr: ErrTooFewColumns,
		},
		{
			name:   "non numeric depth",
			layout: LayoutDepthErr,
			input:  "2.5 abc 0.0001\n",
			column: "depth",
			line:   1,
		},
		{
			name:    "negative wavelength",
			layout:  LayoutNoErrors,
			input:   "-1.0 0.02\n",
			column:  "wavelength",
			line:    1,
			wantErr: ErrNonPositiveWavelength,
		},
		{
			name:    "infinite depth",
			layout:  LayoutNoErrors,
			input:   "1.0 inf\n",
			column:  "depth",
			line:    1,
			wantErr: ErrNotFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), "bad.txt", tt.layout)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %T", err)
			assert.Equal(t, "bad.txt", perr.Source)
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.column, perr.Column)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestLayoutByName(t *testing.T) {
	l, err := LayoutByName("NIRISS")
	require.NoError(t, err)
	assert.Equal(t, LayoutPPM.Name, l.Name)

	l, err = LayoutByName("prism")
	require.NoError(t, err)
	assert.Equal(t, LayoutDepthErr.Name, l.Name)

	_, err = LayoutByName("fits")
	assert.Error(t, err)
}

func ptr(v float64) *float64 { return &v }

func assertOptional(t *testing.T, want, got *float64) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.InDelta(t, *want, *got, 1e-12)
}
