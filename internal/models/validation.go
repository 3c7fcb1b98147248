package models

import (
	"fmt"

	"github.com/gookit/validate"
)

func validateStruct(s any) error {
	v := validate.Struct(s)
	if !v.Validate() {
		return v.Errors
	}
	return nil
}

// Validate checks the page envelope and every record and attachment in it.
func (p *Page) Validate() error {
	if err := validateStruct(p); err != nil {
		return err
	}
	for i := range p.PageData {
		if err := p.PageData[i].Validate(); err != nil {
			return fmt.Errorf("pageData[%d]: %w", i, err)
		}
	}
	return nil
}

func (r *FeedbackRecord) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	for i := range r.Files {
		if err := validateStruct(&r.Files[i]); err != nil {
			return fmt.Errorf("files[%d]: %w", i, err)
		}
	}
	return nil
}

func (s *LegacySubmission) Validate() error {
	for i := range s.FileInfos {
		if err := validateStruct(&s.FileInfos[i]); err != nil {
			return fmt.Errorf("FileInfos[%d]: %w", i, err)
		}
	}
	return nil
}
