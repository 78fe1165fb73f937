package linelist

import (
	"math"
	"strconv"
	"strings"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

// field is a half-open byte range [start, end) within a catalog row.
type field struct{ start, end int }

// HITRAN .par columns used by the pipeline.
var (
	fMolecule   = field{0, 2}
	fIsotope    = field{2, 3}
	fWavenumber = field{3, 15}
	fStrength   = field{15, 25}
	fEinsteinA  = field{25, 35}
	fGammaAir   = field{35, 40}
	fGammaSelf  = field{40, 45}
	fLowerE     = field{45, 55}
	fTempExp    = field{55, 59}
	fShift      = field{59, 67}

	allFields = []field{fMolecule, fIsotope, fWavenumber, fStrength, fEinsteinA, fGammaAir, fGammaSelf, fLowerE, fTempExp, fShift}
)

// SkipReason says why a catalog row was dropped.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipBadMoleculeID
	SkipBadIsotopeID
	SkipMissingWavenumber
	SkipMissingStrength
	SkipNonPositiveWavenumber
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipBadMoleculeID:
		return "bad_molecule_id"
	case SkipBadIsotopeID:
		return "bad_isotope_id"
	case SkipMissingWavenumber:
		return "missing_wavenumber"
	case SkipMissingStrength:
		return "missing_line_strength"
	case SkipNonPositiveWavenumber:
		return "non_positive_wavenumber"
	default:
		return "unknown"
	}
}

// ParseLine converts one catalog row. The molecule and isotope IDs must be plain digits;
// the remaining fields are parsed leniently and become nil when invalid. A row without a
// usable wavenumber or line strength is rejected rather than defaulted.
func ParseLine(line string) (models.LineRecord, SkipReason) {
	mol := cut(line, fMolecule)
	if !isDigits(mol) {
		return models.LineRecord{}, SkipBadMoleculeID
	}
	iso := cut(line, fIsotope)
	if !isDigits(iso) {
		return models.LineRecord{}, SkipBadIsotopeID
	}

	rec := models.LineRecord{}
	rec.MoleculeID, _ = strconv.Atoi(mol)
	rec.IsotopeID, _ = strconv.Atoi(iso)

	nu := number(line, fWavenumber)
	if nu == nil {
		return models.LineRecord{}, SkipMissingWavenumber
	}
	if *nu <= 0 {
		return models.LineRecord{}, SkipNonPositiveWavenumber
	}
	sw := number(line, fStrength)
	if sw == nil {
		return models.LineRecord{}, SkipMissingStrength
	}
	rec.Wavenumber = *nu
	rec.LineStrength = *sw

	rec.EinsteinA = number(line, fEinsteinA)
	rec.GammaAir = number(line, fGammaAir)
	rec.GammaSelf = number(line, fGammaSelf)
	rec.LowerStateEnergy = number(line, fLowerE)
	rec.TempExponent = number(line, fTempExp)
	rec.PressureShift = number(line, fShift)
	return rec, SkipNone
}

// cut returns the trimmed field text, or "" when the row is too short to reach it.
func cut(line string, f field) string {
	if f.start >= len(line) {
		return ""
	}
	end := f.end
	if end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[f.start:end])
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func number(line string, f field) *float64 {
	s := cut(line, f)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func hasAnyField(line string) bool {
	for _, f := range allFields {
		if cut(line, f) != "" {
			return true
		}
	}
	return false
}
