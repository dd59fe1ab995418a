package converter

import "github.com/ginjaninja78/order-slip-generator/internal/types"

// DefaultPageSize is the number of line rows on one printed slip.
const DefaultPageSize = 10

// Paginate splits an order's lines into consecutive batches of at most
// pageSize lines. Batch sequence numbers start at 1. A non-positive pageSize
// falls back to DefaultPageSize. No lines produce no batches.
func Paginate(lines []types.OrderLine, pageSize int) []types.Batch {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	batches := make([]types.Batch, 0, (len(lines)+pageSize-1)/pageSize)
	for start := 0; start < len(lines); start += pageSize {
		end := min(start+pageSize, len(lines))
		batches = append(batches, types.Batch{
			Sequence: len(batches) + 1,
			Lines:    lines[start:end:end],
		})
	}
	return batches
}
