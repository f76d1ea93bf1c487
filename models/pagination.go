package models

// Pagination 分页信息
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// NewPagination 规范化页码并计算总页数
func NewPagination(page, perPage int, total int64) Pagination {
	page, perPage = NormalizePage(page, perPage)
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalPages:  pages,
		TotalItems:  total,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

// Offset 当前页的偏移量
func (p Pagination) Offset() int {
	return (p.CurrentPage - 1) * p.PerPage
}
