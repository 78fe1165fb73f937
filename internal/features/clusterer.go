// Package features groups a molecule's strongest catalog transitions into
// wavelength-localized feature centers.
package features

import (
	"fmt"
	"math"
	"sort"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/rs/zerolog/log"
)

// ConfigurationError reports clusterer parameters that cannot produce a valid binning.
type ConfigurationError struct {
	Field string
	Value any
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid clusterer configuration: %s = %v", e.Field, e.Value)
}

// MinBinWidth is the finest accepted bin width in microns, well below the
// wavelength resolution of a HITRAN wavenumber.
const MinBinWidth = 1e-12

// Clusterer selects the TopN strongest lines of a molecule and bins them by wavelength.
// It holds no state besides its configuration and is safe for concurrent use.
type Clusterer struct {
	topN     int
	binWidth float64
}

// New validates the configuration. binWidth is in microns.
func New(topN int, binWidth float64) (*Clusterer, error) {
	if topN <= 0 {
		return nil, &ConfigurationError{Field: "top_n", Value: topN}
	}
	if math.IsNaN(binWidth) || math.IsInf(binWidth, 0) || binWidth < MinBinWidth {
		return nil, &ConfigurationError{Field: "bin_width", Value: binWidth}
	}
	return &Clusterer{topN: topN, binWidth: binWidth}, nil
}

// TopN returns the configured strongest-line count.
func (c *Clusterer) TopN() int { return c.topN }

// BinWidth returns the configured bin width in microns.
func (c *Clusterer) BinWidth() float64 { return c.binWidth }

// Cluster returns one FeatureCluster per occupied bin over [minWl, maxWl], in ascending
// wavelength order. Bins are [edge_i, edge_i+1) starting at minWl; the final edge belongs
// to the last bin. Selected lines outside the binned range have no bin and are left out.
func (c *Clusterer) Cluster(molecule models.Molecule, lines []models.LineRecord, minWl, maxWl float64) []models.FeatureCluster {
	clusters := []models.FeatureCluster{}
	if len(lines) == 0 {
		return clusters
	}

	strongest := c.strongest(lines)
	layout := NewBins(minWl, maxWl, c.binWidth)

	type bin struct {
		sum   float64
		count int
	}
	// only occupied bins are materialized
	bins := make(map[float64]*bin)
	var order []float64
	outside := 0
	for _, l := range strongest {
		wl := l.Wavelength()
		idx, ok := layout.Index(wl)
		if !ok {
			outside++
			continue
		}
		b, seen := bins[idx]
		if !seen {
			b = &bin{}
			bins[idx] = b
			order = append(order, idx)
		}
		b.sum += wl
		b.count++
	}
	sort.Float64s(order)

	for _, idx := range order {
		b := bins[idx]
		clusters = append(clusters, models.FeatureCluster{
			Molecule:         molecule.Name,
			MoleculeID:       molecule.ID,
			CenterWavelength: b.sum / float64(b.count),
			MemberCount:      b.count,
		})
	}

	log.Debug().
		Str("molecule", molecule.Name).
		Int("selected", len(strongest)).
		Int("outside_range", outside).
		Int("clusters", len(clusters)).
		Msg("Clustered molecular lines")
	return clusters
}

// strongest returns up to topN lines by descending strength, ties kept in catalog order.
func (c *Clusterer) strongest(lines []models.LineRecord) []models.LineRecord {
	sorted := append([]models.LineRecord(nil), lines...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LineStrength > sorted[j].LineStrength
	})
	if len(sorted) > c.topN {
		sorted = sorted[:c.topN]
	}
	return sorted
}
