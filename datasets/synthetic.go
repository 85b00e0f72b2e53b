// Copyright 2025 Sample Data Authors

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datasets

import (
	"context"

	"github.com/stockparfait/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sampledata/sampledata/engine"
	"github.com/sampledata/sampledata/frame"
	"github.com/sampledata/sampledata/options"
)

// numClusters is fixed; totalPoints distributes evenly across the clusters.
const numClusters = 5

// clusterSeed makes every call generate the same point cloud.
const clusterSeed = 42

var (
	clusterCenters = [numClusters][2]float64{
		{0, 0}, {4, 4}, {-4, 4}, {4, -4}, {-4, -4}}
	clusterSigmas = [numClusters]float64{0.5, 0.8, 1.0, 1.2, 1.5}
)

// SyntheticClusters generates a 2-d point cloud of totalPoints points drawn
// from 5 Gaussian clusters with fixed centers, spreads and seed, so repeated
// calls yield identical data. Columns: x, y (float) and cluster (categorical
// c0..c4). It returns *frame.Frame, or *frame.Lazy when cfg.Lazy is set.
// Generation is native to the "table" containers; requesting any other engine
// is an error, as is any unrecognized engine arg.
func SyntheticClusters(ctx context.Context, totalPoints int, cfg *LoadConfig) (any, error) {
	cfg = cfg.orDefault()
	if totalPoints <= 0 || totalPoints%numClusters != 0 {
		return nil, errors.Reason(
			"total_points must be a multiple of %d, got %d", numClusters, totalPoints)
	}
	if e := cfg.Engine; e != "" && e != "table" {
		return nil, foreignEngineErr(e, cfg.Lazy)
	}
	if _, err := options.New(cfg.EngineArgs); err != nil {
		return nil, errors.Annotate(err, "bad options for dataset 'synthetic_clusters'")
	}
	if cfg.Lazy {
		return frame.NewLazy(func(ctx context.Context) (*frame.Frame, error) {
			return generateClusters(totalPoints)
		}), nil
	}
	return generateClusters(totalPoints)
}

// foreignEngineErr distinguishes an engine that exists but cannot produce
// generated data from one that is not linked in at all.
func foreignEngineErr(name string, lazy bool) error {
	for _, n := range engine.Default().Engines(engine.Tabular, lazy) {
		if n == name {
			return &engine.LookupError{
				Engine: name, Shape: engine.Tabular, Lazy: lazy, Format: engine.Generated}
		}
	}
	return &engine.UnavailableError{Engine: name, Shape: engine.Tabular, Lazy: lazy}
}

func generateClusters(totalPoints int) (*frame.Frame, error) {
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(clusterSeed)}
	perCluster := totalPoints / numClusters
	xs := make([]float64, 0, totalPoints)
	ys := make([]float64, 0, totalPoints)
	labels := make([]string, 0, totalPoints)
	levels := make([]string, numClusters)
	for c := 0; c < numClusters; c++ {
		levels[c] = "c" + string(rune('0'+c))
		for i := 0; i < perCluster; i++ {
			xs = append(xs, clusterCenters[c][0]+clusterSigmas[c]*normal.Rand())
			ys = append(ys, clusterCenters[c][1]+clusterSigmas[c]*normal.Rand())
			labels = append(labels, levels[c])
		}
	}
	f, err := frame.New(
		&frame.Column{Name: "x", Type: frame.Float, Floats: xs},
		&frame.Column{Name: "y", Type: frame.Float, Floats: ys},
		&frame.Column{Name: "cluster", Type: frame.String, Strings: labels},
	)
	if err != nil {
		return nil, err
	}
	if err := f.WithCategories("cluster", frame.Categories{Levels: levels}); err != nil {
		return nil, err
	}
	return f, nil
}
