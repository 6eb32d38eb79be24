package neighborhood

import (
	"errors"
	"fmt"
	"sort"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/koetjen/SPLIT/decomp"
)

var (
	// ErrBadClusterCount indicates a cluster count outside [1, n].
	ErrBadClusterCount = errors.New("neighborhood: cluster count outside [1, units]")

	// ErrNoObservations indicates no unit had both an embedding row and
	// a decomposition record.
	ErrNoObservations = errors.New("neighborhood: no units with embedding and record")
)

// ClusterPurity summarizes one embedding cluster: its population, the
// dominant first-type label and the fraction of members carrying it.
type ClusterPurity struct {
	Size         int
	MajorityType string
	Purity       float64
}

// PurityReport is the outcome of EmbeddingPurity: per-cluster purities
// (largest clusters first) and their population-weighted mean.
type PurityReport struct {
	Overall  float64
	Clusters []ClusterPurity
}

// EmbeddingPurity partitions the transcriptomic embedding into k
// k-means clusters and measures how well first-type labels cohere with
// the partition. A QC diagnostic: low purity flags either noisy
// decomposition labels or an embedding that does not separate types —
// both reasons to distrust homogeneity-based swaps.
//
// Units without a record are skipped. k-means initialization is
// randomized, so exact cluster boundaries vary between runs; the
// report is diagnostic, never part of the balance decision.
//
// Complexity: O(iters×n×k).
func EmbeddingPurity(ids []string, embedding [][]float64, records map[string]decomp.Record, k int) (PurityReport, error) {
	if len(ids) != len(embedding) {
		return PurityReport{}, fmt.Errorf("%w: %d ids for %d rows",
			ErrNoObservations, len(ids), len(embedding))
	}

	dataset := make(clusters.Observations, 0, len(ids))
	types := make([]string, 0, len(ids))
	for i, id := range ids {
		rec, ok := records[id]
		if !ok {
			continue
		}
		dataset = append(dataset, clusters.Coordinates(embedding[i]))
		types = append(types, rec.FirstType)
	}
	if len(dataset) == 0 {
		return PurityReport{}, ErrNoObservations
	}
	if k <= 0 || k > len(dataset) {
		return PurityReport{}, fmt.Errorf("%w: k=%d, units=%d", ErrBadClusterCount, k, len(dataset))
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, k)
	if err != nil {
		return PurityReport{}, fmt.Errorf("neighborhood: kmeans partition: %w", err)
	}

	// Assign each unit to its nearest center; Partition's own
	// observation lists do not preserve unit identity.
	counts := make([]map[string]int, len(cc))
	for i := range counts {
		counts[i] = make(map[string]int)
	}
	for i, obs := range dataset {
		ci := cc.Nearest(obs)
		counts[ci][types[i]]++
	}

	report := PurityReport{Clusters: make([]ClusterPurity, 0, len(cc))}
	weighted := 0.0
	total := 0
	for _, c := range counts {
		size := 0
		majority, majorityType := 0, ""
		for typ, n := range c {
			size += n
			if n > majority || (n == majority && typ < majorityType) {
				majority, majorityType = n, typ
			}
		}
		if size == 0 {
			continue
		}
		purity := float64(majority) / float64(size)
		report.Clusters = append(report.Clusters, ClusterPurity{
			Size:         size,
			MajorityType: majorityType,
			Purity:       purity,
		})
		weighted += purity * float64(size)
		total += size
	}
	report.Overall = weighted / float64(total)

	sort.Slice(report.Clusters, func(i, j int) bool {
		if report.Clusters[i].Size != report.Clusters[j].Size {
			return report.Clusters[i].Size > report.Clusters[j].Size
		}

		return report.Clusters[i].MajorityType < report.Clusters[j].MajorityType
	})

	return report, nil
}
