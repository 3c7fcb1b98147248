package models

import "time"

// PagerState is the pagination position of one console session.
type PagerState struct {
	PageIndex int       `json:"pageIndex"`
	PageSize  int       `json:"pageSize"`
	LastSeen  time.Time `json:"lastSeen"`
}

func NewPagerState(pageSize int) PagerState {
	return PagerState{PageSize: pageSize}
}

func (s PagerState) Valid() bool {
	return s.PageIndex >= 0 && s.PageSize > 0
}

// WithPage returns a copy positioned at pageIndex.
func (s PagerState) WithPage(pageIndex int) PagerState {
	s.PageIndex = pageIndex
	return s
}

// NextIndexAfterDelete returns the page to request once a row has been
// deleted from a page that showed rowsOnPage rows. Removing the last row of a
// page steps back one page, never below the first one.
func (s PagerState) NextIndexAfterDelete(rowsOnPage int) int {
	if rowsOnPage == 1 {
		return max(s.PageIndex-1, 0)
	}
	return s.PageIndex
}
