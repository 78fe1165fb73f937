package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/spectrum"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCombined(t *testing.T) {
	cs := models.CombinedSpectrum{Points: []models.SpectralPoint{
		{Wavelength: 0.5, Depth: 0.021, DepthErr: models.Float(0.0001)},
		{Wavelength: 1.25, Depth: 0.0215},
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteCombined(&buf, cs))
	assert.Equal(t,
		"wavelength\tdepth\tdepth_err\n"+
			"5.000000e-01\t2.100000e-02\t1.000000e-04\n"+
			"1.250000e+00\t2.150000e-02\t\n",
		buf.String())

	back, err := spectrum.ReadCombined(strings.NewReader(buf.String()))
	require.NoError(t, err)
	require.Len(t, back.Points, 2)
	assert.Nil(t, back.Points[1].DepthErr)
}

func TestWriteFeaturesAndPeaks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFeatures(&buf, []models.FeatureCluster{{Molecule: "H2O", CenterWavelength: 1.4}}))
	assert.Equal(t, "molecule\twavelength_um\nH2O\t1.400000\n", buf.String())

	buf.Reset()
	require.NoError(t, WritePeaks(&buf, []models.MoleculeScore{{Molecule: "CO2", Peak: 12.34567}}))
	assert.Equal(t, "molecule\tccf_peak\nCO2\t12.346\n", buf.String())
}
