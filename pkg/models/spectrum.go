package models

// SpectralPoint represents a single transit-depth measurement.
// A nil error field means the uncertainty is unknown, which is not the same as zero.
type SpectralPoint struct {
	Wavelength    float64  `json:"wavelength" doc:"Wavelength in microns"`
	WavelengthErr *float64 `json:"wavelength_err,omitempty" doc:"Wavelength uncertainty in microns"`
	Depth         float64  `json:"depth" doc:"Transit depth as a fraction"`
	DepthErr      *float64 `json:"depth_err,omitempty" doc:"Transit depth uncertainty as a fraction"`
}

// Spectrum is one canonical input table, in file order.
type Spectrum struct {
	Name   string          `json:"name"`
	Points []SpectralPoint `json:"points"`
}

// Depths returns the depth column.
func (s Spectrum) Depths() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Depth
	}
	return out
}

// CombinedSpectrum is the merged spectrum: ascending by wavelength, no repeated wavelengths.
type CombinedSpectrum struct {
	Points []SpectralPoint `json:"points" doc:"Merged spectrum points"`
}

// Len returns the number of samples.
func (c CombinedSpectrum) Len() int { return len(c.Points) }

// Wavelengths returns the wavelength grid.
func (c CombinedSpectrum) Wavelengths() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Wavelength
	}
	return out
}

// Depths returns the depth vector aligned with Wavelengths.
func (c CombinedSpectrum) Depths() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Depth
	}
	return out
}

// Domain returns the first and last wavelength. Both are zero for an empty spectrum.
func (c CombinedSpectrum) Domain() (min, max float64) {
	if len(c.Points) == 0 {
		return 0, 0
	}
	return c.Points[0].Wavelength, c.Points[len(c.Points)-1].Wavelength
}

// Float returns a pointer to v, for populating optional fields.
func Float(v float64) *float64 {
	return &v
}
