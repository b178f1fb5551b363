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

package model

import (
	"fmt"
	"time"

	"gopkg.in/mgo.v2/bson"
)

const (
	// SaveMessageOK message of a persisted applicant.
	SaveMessageOK = "saved"
	// SaveMessageFailFormat message of a failed insert, %v is the storage error.
	SaveMessageFailFormat = "Error saving applicant data: %v"
)

// ApplicantDo 求职者记录，创建后不再修改。
type ApplicantDo struct {
	ID            bson.ObjectId `json:"_id" bson:"_id,omitempty"`
	FirstName     string        `json:"firstname" bson:"firstname"`
	LastName      string        `json:"lastname" bson:"lastname"`
	Role          string        `json:"role" bson:"role"`
	ResumeURL     string        `json:"resume_url" bson:"resume_url"`
	InterviewCode string        `json:"interview_code" bson:"interview_code"`
	CreateTime    time.Time     `json:"createTime" bson:"createTime"`
}

// SaveResult outcome of an applicant insert, failures are carried as text.
type SaveResult struct {
	Saved   bool
	Message string
	// Applicant the persisted record, nil when Saved is false.
	Applicant *ApplicantDo
}

// NewSaveResult builds the result of an insert of applicant that returned err.
func NewSaveResult(applicant *ApplicantDo, err error) *SaveResult {
	if err != nil {
		return &SaveResult{Message: fmt.Sprintf(SaveMessageFailFormat, err)}
	}
	return &SaveResult{Saved: true, Message: SaveMessageOK, Applicant: applicant}
}
