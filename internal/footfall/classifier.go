package footfall

import (
	"fmt"
	"sort"

	"github.com/binsight/footfall-backend-go/internal/models"
)

// categoryNames is the display ladder for the default eight categories.
var categoryNames = []string{
	"Very Low Footfall (Residential)",
	"Low Footfall",
	"Low-Medium Footfall",
	"Medium Footfall",
	"Medium-High Footfall",
	"High Footfall",
	"Very High Footfall",
	"Peak Footfall (Commercial Core)",
}

// CategoryName returns the display label for a category out of n.
func CategoryName(category, n int) string {
	if n == len(categoryNames) && category >= 0 && category < n {
		return categoryNames[category]
	}
	return fmt.Sprintf("Category %d", category)
}

// Classify partitions the scored cells into n quantile categories of
// as-equal-as-possible population and writes the category and its display
// name into each cell. Ties on composite score are broken by cell ID so the
// assignment is deterministic. Returns the per-category score bands.
//
// Quantile binning keeps every category populated even when scores cluster
// low, which the optimizer's proportional allocation depends on.
func Classify(cells []models.HexCell, n int) ([]models.CategoryBand, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: category count must be at least 1, got %d", ErrConfig, n)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("%w: no cells to classify", ErrData)
	}
	if len(cells) < n {
		return nil, fmt.Errorf("%w: %d cells cannot fill %d categories", ErrConfig, len(cells), n)
	}

	order := make([]int, len(cells))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ca, cb := &cells[order[a]], &cells[order[b]]
		if ca.FootfallScore != cb.FootfallScore {
			return ca.FootfallScore < cb.FootfallScore
		}
		return ca.CellID < cb.CellID
	})

	bands := make([]models.CategoryBand, n)
	for k := range bands {
		bands[k] = models.CategoryBand{Category: k, Name: CategoryName(k, n)}
	}

	total := len(order)
	for rank, idx := range order {
		cat := rank * n / total
		if cat > n-1 {
			cat = n - 1
		}
		cells[idx].FootfallCategory = cat
		cells[idx].FootfallCategoryName = CategoryName(cat, n)

		b := &bands[cat]
		score := cells[idx].FootfallScore
		if b.CellCount == 0 || score < b.MinScore {
			b.MinScore = score
		}
		if b.CellCount == 0 || score > b.MaxScore {
			b.MaxScore = score
		}
		b.CellCount++
	}
	return bands, nil
}
