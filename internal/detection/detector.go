// Package detection runs feature clustering and cross-correlation for every configured
// molecule against one combined spectrum.
package detection

import (
	"context"
	"fmt"

	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/ccf"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/features"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/internal/linelist"
	"github.com/NehaDushyanthaKumar/Exo-MAFT/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
)

// Result holds the per-molecule outputs of a run, in molecule configuration order.
// Molecules without catalog lines or without clusters inside the spectrum are absent
// from both slices and listed in Unmatched.
type Result struct {
	Features  []models.FeatureCluster
	Scores    []models.MoleculeScore
	Unmatched []string
}

// Detector pairs a clusterer with a correlation engine.
type Detector struct {
	clusterer *features.Clusterer
	engine    ccf.Engine
	workers   int
}

// New creates a Detector. workers <= 0 uses GOMAXPROCS.
func New(clusterer *features.Clusterer, engine ccf.Engine, workers int) *Detector {
	return &Detector{clusterer: clusterer, engine: engine, workers: workers}
}

type moleculeResult struct {
	clusters []models.FeatureCluster
	score    *models.MoleculeScore
}

// Run scores each molecule independently. The combined spectrum and catalog are only read,
// so molecules run concurrently.
func (d *Detector) Run(ctx context.Context, cs models.CombinedSpectrum, catalog *linelist.Catalog, molecules []models.Molecule) (*Result, error) {
	if cs.Len() < 2 {
		return nil, &ccf.InsufficientDataError{Points: cs.Len()}
	}
	minWl, maxWl := cs.Domain()

	mapper := iter.Mapper[models.Molecule, moleculeResult]{MaxGoroutines: d.workers}
	results, err := mapper.MapErr(molecules, func(m *models.Molecule) (moleculeResult, error) {
		if err := ctx.Err(); err != nil {
			return moleculeResult{}, err
		}

		lines := catalog.ForMolecule(m.ID)
		if len(lines) == 0 {
			log.Info().Str("molecule", m.Name).Int("molecule_id", m.ID).Msg("No catalog lines for molecule")
			return moleculeResult{}, nil
		}

		clusters := d.clusterer.Cluster(*m, lines, minWl, maxWl)
		if len(clusters) == 0 {
			log.Info().Str("molecule", m.Name).Msg("No feature clusters inside spectrum range")
			return moleculeResult{}, nil
		}

		score, err := d.engine.Score(cs, *m, clusters)
		if err != nil {
			return moleculeResult{}, fmt.Errorf("failed to score %s: %w", m.Name, err)
		}
		log.Debug().Str("molecule", m.Name).Float64("ccf_peak", score.Peak).Int("clusters", len(clusters)).Msg("Scored molecule")
		return moleculeResult{clusters: clusters, score: &score}, nil
	})
	if err != nil {
		return nil, err
	}

	res := &Result{Features: []models.FeatureCluster{}, Scores: []models.MoleculeScore{}}
	for i, r := range results {
		if r.score == nil {
			res.Unmatched = append(res.Unmatched, molecules[i].Name)
			continue
		}
		res.Features = append(res.Features, r.clusters...)
		res.Scores = append(res.Scores, *r.score)
	}
	return res, nil
}
