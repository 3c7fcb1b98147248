package models

type Frequency int

const (
	FrequencyOccasional Frequency = iota
	FrequencyOften
	FrequencyAlways
)

// FileRef points at one attachment of a feedback record.
type FileRef struct {
	FileName      string `json:"fileName" validate:"required"`
	FileSize      int64  `json:"fileSize" validate:"min:0"`
	FilePathOnOss string `json:"filePathOnOss" validate:"required"`
}

// FeedbackRecord is the canonical record shape the console renders.
// AppVersion, UserInfo and ProcessInfo may be empty.
type FeedbackRecord struct {
	FeedbackID         int       `json:"feedbackID" validate:"required|min:1"`
	ImpactedModule     string    `json:"impactedModule"`
	OccurringFrequency Frequency `json:"occurringFrequency"`
	BugDescription     string    `json:"bugDescription"`
	ReproduceSteps     string    `json:"reproduceSteps"`
	AppVersion         string    `json:"appVersion"`
	UserInfo           string    `json:"userInfo"`
	ProcessInfo        string    `json:"processInfo"`
	Email              string    `json:"email"`
	TimeStamp          int64     `json:"timeStamp" validate:"min:0"`
	Files              []FileRef `json:"files"`
}

type Page struct {
	PageData         []FeedbackRecord `json:"pageData"`
	TotalSize        int              `json:"totalSize" validate:"min:0"`
	CurrentPageIndex int              `json:"currentPageIndex" validate:"min:0"`
}

// PageCount is the number of pages needed to show TotalSize records.
func (p *Page) PageCount(pageSize int) int {
	if pageSize <= 0 || p.TotalSize <= 0 {
		return 0
	}
	return (p.TotalSize + pageSize - 1) / pageSize
}
