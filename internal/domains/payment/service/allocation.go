package service

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationItem is one purchased line: a course, or a bundle whose
// members share its price.
type AllocationItem struct {
	Price     decimal.Decimal
	CourseIDs []uuid.UUID
}

type CourseShare struct {
	CourseID uuid.UUID
	Amount   decimal.Decimal
}

// Allocate splits the charged total over the purchased courses, in cents,
// proportionally to item prices. Inside a bundle the share follows the
// members' list prices. Shares always sum to total; without usable weights
// the split is even. A course bought twice gets one row with both shares.
func Allocate(total decimal.Decimal, items []AllocationItem, coursePrices map[uuid.UUID]decimal.Decimal) []CourseShare {
	if len(items) == 0 {
		return nil
	}

	itemWeights := make([]int64, len(items))
	for i, it := range items {
		itemWeights[i] = cents(it.Price)
	}
	itemShares := splitCents(cents(total), itemWeights)

	order := make([]uuid.UUID, 0)
	amounts := make(map[uuid.UUID]int64)
	for i, it := range items {
		if len(it.CourseIDs) == 0 {
			continue
		}
		weights := make([]int64, len(it.CourseIDs))
		for j, id := range it.CourseIDs {
			weights[j] = cents(coursePrices[id])
		}
		for j, share := range splitCents(itemShares[i], weights) {
			id := it.CourseIDs[j]
			if _, seen := amounts[id]; !seen {
				order = append(order, id)
			}
			amounts[id] += share
		}
	}

	out := make([]CourseShare, 0, len(order))
	for _, id := range order {
		out = append(out, CourseShare{CourseID: id, Amount: decimal.New(amounts[id], -2)})
	}
	return out
}

// splitCents divides total by weight using largest remainders. Negative
// weights count as zero.
func splitCents(total int64, weights []int64) []int64 {
	n := len(weights)
	shares := make([]int64, n)
	if n == 0 {
		return shares
	}

	var sum int64
	for i, w := range weights {
		if w < 0 {
			weights[i] = 0
			w = 0
		}
		sum += w
	}
	if sum == 0 {
		weights = make([]int64, n)
		for i := range weights {
			weights[i] = 1
		}
		sum = int64(n)
	}

	type rem struct {
		idx int
		r   int64
	}
	rems := make([]rem, n)
	var assigned int64
	for i, w := range weights {
		shares[i] = total * w / sum
		rems[i] = rem{idx: i, r: total * w % sum}
		assigned += shares[i]
	}

	sort.SliceStable(rems, func(a, b int) bool { return rems[a].r > rems[b].r })
	for k := int64(0); k < total-assigned; k++ {
		shares[rems[k%int64(n)].idx]++
	}
	return shares
}

func cents(d decimal.Decimal) int64 {
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
