package linelist

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

// MoleculeIDs maps HITRAN molecule formulas to their catalog IDs.
var MoleculeIDs = map[string]int{
	"H2O":  1,
	"CO2":  2,
	"O3":   3,
	"N2O":  4,
	"CO":   5,
	"CH4":  6,
	"O2":   7,
	"NO":   8,
	"SO2":  9,
	"NO2":  10,
	"NH3":  11,
	"HNO3": 12,
	"OH":   13,
	"HF":   14,
	"HCl":  15,
	"HBr":  16,
	"HI":   17,
	"ClO":  18,
	"OCS":  19,
	"H2CO": 20,
	"HOCl": 21,
	"N2":   22,
	"HCN":  23,
	"C2H2": 26,
	"C2H6": 27,
	"PH3":  28,
	"H2S":  31,
	"H2":   45,
}

// DefaultMolecules is the set tracked when none is configured.
var DefaultMolecules = []string{"H2O", "CO2", "NH3", "CO", "CH4", "HCN"}

// ParseMolecules resolves entries of the form NAME or NAME:ID, keeping their order.
// A NAME without an ID must be a known HITRAN formula.
func ParseMolecules(entries []string) ([]models.Molecule, error) {
	var out []models.Molecule
	seen := map[string]bool{}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		name, idStr, hasID := strings.Cut(e, ":")
		name = strings.TrimSpace(name)

		var id int
		if hasID {
			v, err := strconv.Atoi(strings.TrimSpace(idStr))
			if err != nil || v <= 0 {
				return nil, fmt.Errorf("invalid molecule id in %q", e)
			}
			id = v
		} else {
			v, ok := MoleculeIDs[name]
			if !ok {
				return nil, fmt.Errorf("unknown molecule %q, use NAME:ID", name)
			}
			id = v
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate molecule %q", name)
		}
		seen[name] = true
		out = append(out, models.Molecule{Name: name, ID: id})
	}
	return out, nil
}
