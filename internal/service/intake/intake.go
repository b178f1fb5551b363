// Copyright 2020 Qiniu Cloud (qiniu.com)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package intake turns an applicant form submission into a stored applicant record.
package intake

import (
	"context"
	"errors"
	"io"

	"github.com/qiniu/x/xlog"

	"github.com/solutions/interview-prep/internal/common/utils"
	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
	"github.com/solutions/interview-prep/internal/protodef/form"
	"github.com/solutions/interview-prep/internal/protodef/model"
	"github.com/solutions/interview-prep/internal/service/db"
)

// Uploader 简历上传，由 *cloud.StorageService 实现。
type Uploader interface {
	Upload(ctx context.Context, xl *xlog.Logger, content []byte, name string) (string, error)
}

type Service struct {
	uploader Uploader
	store    db.ApplicantDaoInterface
	conf     utils.IntakeConfig
	newCode  func() string
	xl       *xlog.Logger
}

func NewService(uploader Uploader, store db.ApplicantDaoInterface, conf utils.IntakeConfig) *Service {
	return &Service{
		uploader: uploader,
		store:    store,
		conf:     conf,
		newCode:  utils.GenerateInterviewCode,
		xl:       xlog.New("intake service"),
	}
}

// SubmitForm reads the resume of f and runs Submit with it.
func (s *Service) SubmitForm(ctx context.Context, xl *xlog.Logger, f *form.ApplicantForm) (*model.SaveResult, error) {
	if xl == nil {
		xl = s.xl
	}
	if f.Resume.Size > s.conf.MaxResumeSize {
		xl.Infof("resume of %s %s is %d bytes, limit %d", f.FirstName, f.LastName, f.Resume.Size, s.conf.MaxResumeSize)
		return nil, errors2.ErrResumeTooLarge
	}
	file, err := f.Resume.Open()
	if err != nil {
		xl.Errorf("failed to open resume %s, error %v", f.Resume.Filename, err)
		return nil, err
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		xl.Errorf("failed to read resume %s, error %v", f.Resume.Filename, err)
		return nil, err
	}
	return s.Submit(ctx, xl, f.FirstName, f.LastName, f.Role, content)
}

// Submit uploads resume then stores the applicant under a fresh interview code.
//
// An upload failure is returned as an error unless PersistOnUploadFailure is set,
// in which case the applicant is stored with an empty resume url. A failed insert
// is not an error: it is reported through the returned SaveResult.
func (s *Service) Submit(ctx context.Context, xl *xlog.Logger, firstname, lastname, role string, resume []byte) (*model.SaveResult, error) {
	if xl == nil {
		xl = s.xl
	}
	name := utils.ResumeObjectName(firstname, lastname)
	resumeURL, err := s.uploader.Upload(ctx, xl, resume, name)
	if err != nil {
		if !s.conf.PersistOnUploadFailure {
			return nil, err
		}
		xl.Warnf("upload of %s failed, saving applicant without resume url, error %v", name, err)
		resumeURL = ""
	}

	applicant := &model.ApplicantDo{
		FirstName: firstname,
		LastName:  lastname,
		Role:      role,
		ResumeURL: resumeURL,
	}
	attempts := s.conf.CodeAttempts
	if attempts < 1 {
		attempts = 1
	}
	for i := 0; i < attempts; i++ {
		applicant.InterviewCode = s.newCode()
		err = s.store.Save(xl, applicant)
		if !errors.Is(err, errors2.ErrDuplicateCode) {
			break
		}
		xl.Infof("interview code collision, attempt %d of %d", i+1, attempts)
	}
	if errors.Is(err, errors2.ErrDuplicateCode) {
		err = errors.New(errors2.ErrDuplicateCode.Summary)
	}
	return model.NewSaveResult(applicant, err), nil
}
