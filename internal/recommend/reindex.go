package recommend

import (
	"fmt"

	"github.com/mrlokans/bookreviews/internal/entities"
	"github.com/mrlokans/bookreviews/internal/store"
)

// MinIDWidth is the minimum number of digits in a recommendation id.
const MinIDWidth = 3

// FormatID renders the 1-based position n as a zero-filled id. The width
// grows past 999 instead of wrapping.
func FormatID(n int) string {
	return fmt.Sprintf("%0*d", MinIDWidth, n)
}

// Reindex numbers recs "001", "002", ... in slice order and returns them as a
// new store keyed by the assigned id.
func Reindex(recs []entities.Recommendation) *store.Store[entities.Recommendation] {
	out := store.New[entities.Recommendation]()
	for i, rec := range recs {
		rec.ID = FormatID(i + 1)
		out.Put(rec.ID, rec)
	}
	return out
}
