package leads

// DefaultPageSize is the lead table window size.
const DefaultPageSize = 10

// TotalPages returns the number of pages needed for total items. An empty
// list has zero pages and therefore no valid page.
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns the window [(page-1)*pageSize, page*pageSize) of list.
// page is clamped to [1, TotalPages]; an empty list yields nil.
func Paginate(list []Lead, pageSize, page int) []Lead {
	totalPages := TotalPages(len(list), pageSize)
	if totalPages == 0 {
		return nil
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(list) {
		end = len(list)
	}
	return list[start:end]
}

// clampPage keeps an active page index inside the valid range; 0 when no
// page is valid.
func clampPage(page, total, pageSize int) int {
	totalPages := TotalPages(total, pageSize)
	if totalPages == 0 {
		return 0
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
