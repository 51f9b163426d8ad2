package domain

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// FeatureCount is the number of numeric columns used for grouping:
// volume, weight, shelf life and demand.
const FeatureCount = 4

// Grouping parameters
const (
	GroupingSeed     int64 = 42
	groupingRestarts       = 10
	groupingMaxIter        = 300
)

// Point is one row of numeric product features
type Point [FeatureCount]float64

// referenceTable holds the example rows the zone groups are derived from
var referenceTable = []Point{
	{0.1, 2, 7, 10},
	{0.5, 10, 30, 50},
	{1.2, 20, 90, 100},
	{0.3, 5, 15, 30},
	{0.8, 15, 60, 70},
}

// referenceGrouping is fitted once at package initialisation
var referenceGrouping = MustFitGrouping(referenceTable, ZoneCount, GroupingSeed)

// ReferenceTable returns a copy of the example rows
func ReferenceTable() []Point {
	rows := make([]Point, len(referenceTable))
	copy(rows, referenceTable)
	return rows
}

// ReferenceGrouping returns the grouping the zone selection classifies against
func ReferenceGrouping() *Grouping {
	return referenceGrouping
}

// Grouping is an immutable set of k centers produced by k-means.
// Group ids are canonical: the group of the first row is 0, the next new
// group seen while scanning the rows is 1, and so on.
type Grouping struct {
	centers []Point
	labels  []int
	inertia float64
}

// FitGrouping runs seeded k-means++ with several restarts and keeps the
// result with the lowest inertia.
func FitGrouping(rows []Point, k int, seed int64) (*Grouping, error) {
	if k <= 0 {
		return nil, errors.New("number of groups must be positive")
	}
	if len(rows) < k {
		return nil, fmt.Errorf("need at least %d rows to form %d groups, got %d", k, k, len(rows))
	}

	rng := rand.New(rand.NewSource(seed))

	var best *Grouping
	for run := 0; run < groupingRestarts; run++ {
		centers := seedCenters(rows, k, rng)
		labels, inertia := lloyd(rows, centers)
		if best == nil || inertia < best.inertia {
			best = &Grouping{centers: centers, labels: labels, inertia: inertia}
		}
	}

	best.canonicalize()
	return best, nil
}

// MustFitGrouping is FitGrouping for package-level constants
func MustFitGrouping(rows []Point, k int, seed int64) *Grouping {
	g, err := FitGrouping(rows, k, seed)
	if err != nil {
		panic(err)
	}
	return g
}

// Classify returns the id of the nearest center. Ties go to the lowest id.
func (g *Grouping) Classify(p Point) int {
	id, _ := nearest(p, g.centers)
	return id
}

// Centers returns a copy of the centers indexed by group id
func (g *Grouping) Centers() []Point {
	out := make([]Point, len(g.centers))
	copy(out, g.centers)
	return out
}

// Labels returns the group id of every fitted row
func (g *Grouping) Labels() []int {
	out := make([]int, len(g.labels))
	copy(out, g.labels)
	return out
}

// Inertia is the sum of squared distances of the rows to their centers
func (g *Grouping) Inertia() float64 {
	return g.inertia
}

// K returns the number of groups
func (g *Grouping) K() int {
	return len(g.centers)
}

// seedCenters is greedy k-means++: each new center is the best of a few
// candidates drawn proportionally to the squared distance from the chosen ones.
func seedCenters(rows []Point, k int, rng *rand.Rand) []Point {
	n := len(rows)
	trials := 2 + int(math.Log(float64(k)))

	centers := make([]Point, 0, k)
	centers = append(centers, rows[rng.Intn(n)])

	closest := make([]float64, n)
	potential := 0.0
	for i, row := range rows {
		closest[i] = squaredDistance(row, centers[0])
		potential += closest[i]
	}

	cumulative := make([]float64, n)
	candidate := make([]float64, n)
	bestClosest := make([]float64, n)

	for len(centers) < k {
		running := 0.0
		for i, d := range closest {
			running += d
			cumulative[i] = running
		}

		bestIdx := -1
		bestPotential := math.Inf(1)
		for t := 0; t < trials; t++ {
			idx := searchCumulative(cumulative, rng.Float64()*potential)

			sum := 0.0
			for i, row := range rows {
				candidate[i] = math.Min(closest[i], squaredDistance(row, rows[idx]))
				sum += candidate[i]
			}
			if sum < bestPotential {
				bestPotential = sum
				bestIdx = idx
				copy(bestClosest, candidate)
			}
		}

		centers = append(centers, rows[bestIdx])
		potential = bestPotential
		copy(closest, bestClosest)
	}

	return centers
}

// searchCumulative returns the first index whose running total reaches v
func searchCumulative(cumulative []float64, v float64) int {
	lo, hi := 0, len(cumulative)
	for lo < hi {
		mid := (lo + hi) / 2
		if cumulative[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo >= len(cumulative) {
		return len(cumulative) - 1
	}
	return lo
}

// lloyd refines centers in place until no row changes group
func lloyd(rows []Point, centers []Point) ([]int, float64) {
	labels := make([]int, len(rows))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < groupingMaxIter; iter++ {
		changed := false
		for i, row := range rows {
			id, _ := nearest(row, centers)
			if id != labels[i] {
				labels[i] = id
				changed = true
			}
		}
		if !changed {
			break
		}

		sums := make([]Point, len(centers))
		counts := make([]int, len(centers))
		for i, row := range rows {
			for f := range row {
				sums[labels[i]][f] += row[f]
			}
			counts[labels[i]]++
		}
		for c := range centers {
			// an empty group keeps its previous center
			if counts[c] == 0 {
				continue
			}
			for f := range sums[c] {
				centers[c][f] = sums[c][f] / float64(counts[c])
			}
		}
	}

	inertia := 0.0
	for i, row := range rows {
		id, d := nearest(row, centers)
		labels[i] = id
		inertia += d
	}
	return labels, inertia
}

// canonicalize renumbers groups by first appearance in the fitted rows.
// Groups that own no row keep their relative order after the others.
func (g *Grouping) canonicalize() {
	mapping := make([]int, len(g.centers))
	for i := range mapping {
		mapping[i] = -1
	}

	next := 0
	for _, label := range g.labels {
		if mapping[label] == -1 {
			mapping[label] = next
			next++
		}
	}
	for i := range mapping {
		if mapping[i] == -1 {
			mapping[i] = next
			next++
		}
	}

	centers := make([]Point, len(g.centers))
	for old, id := range mapping {
		centers[id] = g.centers[old]
	}
	for i, label := range g.labels {
		g.labels[i] = mapping[label]
	}
	g.centers = centers
}

func nearest(p Point, centers []Point) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centers {
		if d := squaredDistance(p, c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist
}

func squaredDistance(a, b Point) float64 {
	sum := 0.0
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
