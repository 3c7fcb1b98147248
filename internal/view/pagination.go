package view

import "fbconsole/internal/models"

type PageButton struct {
	Label   int
	Index   int
	Current bool
}

type Pagination struct {
	Buttons      []PageButton
	PageSize     int
	PageCount    int
	TotalSize    int
	CurrentIndex int
}

// BuildPagination lays out one button per page. Labels start at 1, indexes at 0.
func BuildPagination(page *models.Page, pageSize int) Pagination {
	count := page.PageCount(pageSize)
	p := Pagination{
		Buttons:      make([]PageButton, 0, count),
		PageSize:     pageSize,
		PageCount:    count,
		TotalSize:    page.TotalSize,
		CurrentIndex: page.CurrentPageIndex,
	}
	for i := 0; i < count; i++ {
		p.Buttons = append(p.Buttons, PageButton{
			Label:   i + 1,
			Index:   i,
			Current: i == page.CurrentPageIndex,
		})
	}
	return p
}
