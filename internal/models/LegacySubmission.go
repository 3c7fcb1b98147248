package models

import "time"

type LegacyFileInfo struct {
	OriginalName string `json:"OriginalName" validate:"required"`
	FileType     string `json:"FileType"`
	FileSize     int64  `json:"FileSize" validate:"min:0"`
	ServerPath   string `json:"ServerPath" validate:"required"`
}

// LegacySubmission is an item of the older, non-paginated /feedback listing.
type LegacySubmission struct {
	ID         int              `json:"ID"`
	Title      string           `json:"Title"`
	Content    string           `json:"Content"`
	SubmitTime time.Time        `json:"SubmitTime"`
	FileInfos  []LegacyFileInfo `json:"FileInfos"`
}
