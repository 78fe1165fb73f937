package ccf

import (
	"sort"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
)

// Template builds a comb over an ascending wavelength grid: 1.0 at the sample nearest each
// cluster center, 0 elsewhere. On an exact tie the shorter wavelength wins.
func Template(wavelengths []float64, clusters []models.FeatureCluster) []float64 {
	tpl := make([]float64, len(wavelengths))
	if len(wavelengths) == 0 {
		return tpl
	}
	for _, c := range clusters {
		tpl[Nearest(wavelengths, c.CenterWavelength)] = 1.0
	}
	return tpl
}

// Nearest returns the index of the grid sample closest to x. grid must be ascending and non-empty.
func Nearest(grid []float64, x float64) int {
	i := sort.SearchFloat64s(grid, x)
	if i == 0 {
		return 0
	}
	if i == len(grid) {
		return len(grid) - 1
	}
	if x-grid[i-1] <= grid[i]-x {
		return i - 1
	}
	return i
}
