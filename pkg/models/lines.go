package models

// LineRecord is one molecular transition from a HITRAN-style catalog.
// Optional fields are nil when the catalog value was blank or unparsable.
type LineRecord struct {
	MoleculeID       int      `json:"molecule_id"`
	IsotopeID        int      `json:"isotope_id"`
	Wavenumber       float64  `json:"wavenumber" doc:"Transition wavenumber in cm^-1"`
	LineStrength     float64  `json:"line_strength" doc:"Line intensity (sw)"`
	EinsteinA        *float64 `json:"einstein_a,omitempty"`
	GammaAir         *float64 `json:"gamma_air,omitempty"`
	GammaSelf        *float64 `json:"gamma_self,omitempty"`
	LowerStateEnergy *float64 `json:"lower_state_energy,omitempty"`
	TempExponent     *float64 `json:"n_air,omitempty"`
	PressureShift    *float64 `json:"delta_air,omitempty"`
}

// Wavelength returns the transition wavelength in microns.
func (l LineRecord) Wavelength() float64 {
	return 1e4 / l.Wavenumber
}

// Molecule pairs a display name with its catalog molecule ID.
type Molecule struct {
	Name string `json:"name" doc:"Molecule name, e.g. H2O"`
	ID   int    `json:"id" doc:"HITRAN molecule ID"`
}

// FeatureCluster is a group of strong transitions that fall in the same wavelength bin.
type FeatureCluster struct {
	Molecule         string  `json:"molecule" doc:"Molecule name"`
	MoleculeID       int     `json:"molecule_id" doc:"HITRAN molecule ID"`
	CenterWavelength float64 `json:"wavelength_um" doc:"Mean member wavelength in microns"`
	MemberCount      int     `json:"member_count" doc:"Number of transitions in the cluster"`
}

// MoleculeScore is the cross-correlation result for one molecule.
// Peak is an uncalibrated statistic: it ranks molecules but is not a detection significance.
type MoleculeScore struct {
	Molecule       string    `json:"molecule" doc:"Molecule name"`
	MoleculeID     int       `json:"molecule_id" doc:"HITRAN molecule ID"`
	Peak           float64   `json:"ccf_peak" doc:"Maximum of the cross-correlation function"`
	PeakWavelength float64   `json:"peak_wavelength_um" doc:"Wavelength of the sample holding the peak"`
	Clusters       int       `json:"clusters" doc:"Number of feature clusters in the template"`
	CCF            []float64 `json:"ccf,omitempty" doc:"Cross-correlation trace aligned with the spectrum grid"`
}
