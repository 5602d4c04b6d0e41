// file: internal/server/pagination.go
// version: 1.1.0
// guid: 0406142d-8c8b-485f-8e82-e806126f0738

package server

// PageWindow returns the page numbers to render, at most seven,
// centered on the current page. With seven or fewer total pages all of
// them are shown; near either edge the window pins to that edge.
func PageWindow(current, total int) []int {
	if total < 1 {
		return nil
	}
	count := total
	if count > 7 {
		count = 7
	}
	window := make([]int, 0, count)
	for i := 0; i < count; i++ {
		var p int
		switch {
		case total <= 7:
			p = i + 1
		case current <= 4:
			p = i + 1
		case current >= total-3:
			p = total - 6 + i
		default:
			p = current - 3 + i
		}
		window = append(window, p)
	}
	return window
}
