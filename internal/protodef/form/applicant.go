package form

import (
	"mime/multipart"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	ErrNameMsg   = "name is required and must be at most 100 characters"
	ErrRoleMsg   = "role is required and must be at most 200 characters"
	ErrResumeMsg = "resume file is required"
)

// ApplicantForm multipart body of POST /applicant-form.
type ApplicantForm struct {
	FirstName string                `form:"firstname"`
	LastName  string                `form:"lastname"`
	Role      string                `form:"role"`
	Resume    *multipart.FileHeader `form:"resume"`
}

func (f *ApplicantForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.FirstName, validation.Required.Error(ErrNameMsg), validation.RuneLength(1, 100).Error(ErrNameMsg)),
		validation.Field(&f.LastName, validation.Required.Error(ErrNameMsg), validation.RuneLength(1, 100).Error(ErrNameMsg)),
		validation.Field(&f.Role, validation.Required.Error(ErrRoleMsg), validation.RuneLength(1, 200).Error(ErrRoleMsg)),
		validation.Field(&f.Resume, validation.NotNil.Error(ErrResumeMsg)),
	)
}
