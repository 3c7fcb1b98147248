package view

import (
	"fbconsole/internal/models"
)

// LinkResolver turns an attachment into the href the console renders.
type LinkResolver interface {
	FileURL(file models.FileRef) string
}

type FileLink struct {
	Name string
	Size string
	URL  string
}

type Row struct {
	ID          int
	Module      string
	Frequency   string
	Description string
	Steps       string
	AppVersion  string
	Time        string
	Email       string
	UserInfo    string
	ProcessInfo string
	Files       []FileLink
}

func BuildRows(page *models.Page, links LinkResolver) []Row {
	rows := make([]Row, 0, len(page.PageData))
	for _, rec := range page.PageData {
		files := make([]FileLink, 0, len(rec.Files))
		for _, f := range rec.Files {
			files = append(files, FileLink{
				Name: f.FileName,
				Size: FormatFileSize(f.FileSize),
				URL:  links.FileURL(f),
			})
		}
		rows = append(rows, Row{
			ID:          rec.FeedbackID,
			Module:      rec.ImpactedModule,
			Frequency:   FrequencyLabel(rec.OccurringFrequency),
			Description: rec.BugDescription,
			Steps:       rec.ReproduceSteps,
			AppVersion:  rec.AppVersion,
			Time:        FormatTimestamp(rec.TimeStamp),
			Email:       rec.Email,
			UserInfo:    rec.UserInfo,
			ProcessInfo: rec.ProcessInfo,
			Files:       files,
		})
	}
	return rows
}

type LegacyRow struct {
	ID         int
	Title      string
	Content    string
	SubmitTime string
	Files      []FileLink
}

// BuildLegacyRows maps the older listing; downloadURL builds the proxied
// download link for a server path.
func BuildLegacyRows(items []models.LegacySubmission, downloadURL func(serverPath string) string) []LegacyRow {
	rows := make([]LegacyRow, 0, len(items))
	for _, item := range items {
		files := make([]FileLink, 0, len(item.FileInfos))
		for _, f := range item.FileInfos {
			files = append(files, FileLink{
				Name: f.OriginalName,
				Size: FormatFileSize(f.FileSize),
				URL:  downloadURL(f.ServerPath),
			})
		}
		rows = append(rows, LegacyRow{
			ID:         item.ID,
			Title:      item.Title,
			Content:    item.Content,
			SubmitTime: FormatTimestamp(item.SubmitTime.UnixMilli()),
			Files:      files,
		})
	}
	return rows
}
