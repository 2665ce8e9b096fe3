package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"moneystory/internal/core"
)

// BehaviorProfiles assigns every period with data to exactly one archetype.
//
// With enough periods the assignment comes from k-means (one cluster per
// archetype) over standardized features; cluster IDs are opaque, so the
// ID-to-archetype mapping is re-derived from centroids on every call. Too
// few periods, zero-variance features, a cancelled context or any clustering
// failure all fail closed into the deterministic rule fallback — a tagged
// dispatch, not a patched-over exception.
func (e *Engine) BehaviorProfiles(ctx context.Context, rows []core.FeatureRow) core.BehaviorProfile {
	profile := core.BehaviorProfile{
		LabelsByPeriod: make(map[core.Period]core.Archetype, len(rows)),
		Descriptions:   core.ArchetypeDescriptions(),
	}
	if len(rows) == 0 {
		return profile
	}

	if len(rows) < e.cfg.MinClusterPeriods || degenerate(rows) {
		e.labelByRules(rows, profile.LabelsByPeriod)
		return profile
	}

	labels, err := e.clusterLabels(ctx, rows)
	if err != nil {
		slog.WarnContext(ctx, "Clustering failed, using rule fallback", "error", err, "periods", len(rows))
		e.labelByRules(rows, profile.LabelsByPeriod)
		return profile
	}

	for i, row := range rows {
		profile.LabelsByPeriod[row.Period] = labels[i]
	}
	return profile
}

// labelByRules classifies each period independently with ordered priority
// rules. Subscription share is checked first because it is the most specific
// signal; a period satisfying several raw conditions takes the first match.
func (e *Engine) labelByRules(rows []core.FeatureRow, out map[core.Period]core.Archetype) {
	for _, row := range rows {
		out[row.Period] = e.ruleArchetype(row)
	}
}

func (e *Engine) ruleArchetype(row core.FeatureRow) core.Archetype {
	switch {
	case row.SubscriptionShare > e.cfg.SubscriptionShareCutoff:
		return core.ArchetypeSubscriptionHeavy
	case row.SavingsRate >= e.cfg.SuperSaverRate:
		return core.ArchetypeSuperSaver
	case row.ShoppingShare > e.cfg.ShoppingShareCutoff:
		return core.ArchetypeLifestyleSpender
	default:
		return core.ArchetypeBalanced
	}
}

// observation pairs a feature vector with its row index so cluster members
// can be traced back to periods after partitioning.
type observation struct {
	idx    int
	coords clusters.Coordinates
}

func (o observation) Coordinates() clusters.Coordinates { return o.coords }

func (o observation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// clusterLabels runs k-means over z-scored features and maps each row to an
// archetype. The partition runs on its own goroutine so a caller serving
// requests can abandon a slow computation via ctx; the computation is pure,
// so there is nothing to roll back.
func (e *Engine) clusterLabels(ctx context.Context, rows []core.FeatureRow) ([]core.Archetype, error) {
	scaled := standardize(featureMatrix(rows))

	obs := make(clusters.Observations, len(rows))
	for i, coords := range scaled {
		obs[i] = observation{idx: i, coords: coords}
	}

	type result struct {
		partition clusters.Clusters
		err       error
	}
	done := make(chan result, 1)
	go func() {
		km := kmeans.New()
		partition, err := km.Partition(obs, e.cfg.ClusterCount)
		done <- result{partition: partition, err: err}
	}()

	var partition clusters.Clusters
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err != nil {
			return nil, fmt.Errorf("kmeans partition: %w", r.err)
		}
		partition = r.partition
	}
	if len(partition) == 0 {
		return nil, fmt.Errorf("kmeans returned no clusters")
	}

	archetypeByCluster := mapClustersToArchetypes(partition)

	labels := make([]core.Archetype, len(rows))
	for i := range labels {
		labels[i] = core.ArchetypeBalanced
	}
	for ci, cluster := range partition {
		for _, member := range cluster.Observations {
			o, ok := member.(observation)
			if !ok {
				return nil, fmt.Errorf("unexpected observation type %T", member)
			}
			labels[o.idx] = archetypeByCluster[ci]
		}
	}
	return labels, nil
}

// Feature vector layout shared by featureMatrix and the centroid mapping.
const (
	dimSavings = iota
	dimExpense
	dimSubscriptions
	dimShopping
	dimCount
)

func featureMatrix(rows []core.FeatureRow) []clusters.Coordinates {
	matrix := make([]clusters.Coordinates, len(rows))
	for i, row := range rows {
		matrix[i] = clusters.Coordinates{
			dimSavings:       row.SavingsRate,
			dimExpense:       row.TotalExpense,
			dimSubscriptions: row.SubscriptionShare,
			dimShopping:      row.ShoppingShare,
		}
	}
	return matrix
}

// mapClustersToArchetypes derives the archetype for each cluster index from
// its centroid: the label whose defining feature dominates that centroid
// wins. Conflicts are resolved greedily in priority order Subscription
// Heavy, Super Saver, Lifestyle Spender; whatever remains is Balanced.
func mapClustersToArchetypes(partition clusters.Clusters) []core.Archetype {
	labels := make([]core.Archetype, len(partition))
	for i := range labels {
		labels[i] = core.ArchetypeBalanced
	}

	assigned := make([]bool, len(partition))
	pick := func(dim int, label core.Archetype) {
		best := -1
		for i, c := range partition {
			if assigned[i] || len(c.Center) <= dim {
				continue
			}
			if best < 0 || c.Center[dim] > partition[best].Center[dim] {
				best = i
			}
		}
		if best >= 0 {
			labels[best] = label
			assigned[best] = true
		}
	}

	pick(dimSubscriptions, core.ArchetypeSubscriptionHeavy)
	pick(dimSavings, core.ArchetypeSuperSaver)
	pick(dimShopping, core.ArchetypeLifestyleSpender)
	return labels
}

// standardize z-scores each column so no raw-magnitude feature dominates the
// distance metric. A zero-variance column maps to all zeros.
func standardize(matrix []clusters.Coordinates) []clusters.Coordinates {
	if len(matrix) == 0 {
		return matrix
	}
	n := float64(len(matrix))

	means := make([]float64, dimCount)
	for _, row := range matrix {
		for d := 0; d < dimCount; d++ {
			means[d] += row[d]
		}
	}
	for d := range means {
		means[d] /= n
	}

	stddevs := make([]float64, dimCount)
	for _, row := range matrix {
		for d := 0; d < dimCount; d++ {
			diff := row[d] - means[d]
			stddevs[d] += diff * diff
		}
	}
	for d := range stddevs {
		stddevs[d] = math.Sqrt(stddevs[d] / n)
	}

	scaled := make([]clusters.Coordinates, len(matrix))
	for i, row := range matrix {
		out := make(clusters.Coordinates, dimCount)
		for d := 0; d < dimCount; d++ {
			if stddevs[d] > 0 {
				out[d] = (row[d] - means[d]) / stddevs[d]
			}
		}
		scaled[i] = out
	}
	return scaled
}

// degenerate reports whether every feature dimension has zero variance, in
// which case clustering would be meaningless noise.
func degenerate(rows []core.FeatureRow) bool {
	first := rows[0]
	for _, row := range rows[1:] {
		if row.SavingsRate != first.SavingsRate ||
			row.TotalExpense != first.TotalExpense ||
			row.SubscriptionShare != first.SubscriptionShare ||
			row.ShoppingShare != first.ShoppingShare {
			return false
		}
	}
	return true
}
