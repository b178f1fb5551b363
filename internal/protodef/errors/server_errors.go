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

package errors

import "encoding/json"

// ServerError 服务端内部错误与非正常返回结果定义
type ServerError struct {
	Code    int    `json:"code"`
	Summary string `json:"summary"`
}

func (e *ServerError) Error() string {
	buf, _ := json.Marshal(e)
	return string(buf)
}

// Is reports whether target is a ServerError with the same code.
func (e *ServerError) Is(target error) bool {
	t, ok := target.(*ServerError)
	return ok && t.Code == e.Code
}

// 各种服务端内部错误的错误码定义。错误码为5位数字。
const (
	// 1开头表示服务端内部，或数据库访问相关的错误。
	ServerErrorApplicantNotFound = 10004
	ServerErrorDuplicateCode     = 10006
	ServerErrorResumeTooLarge    = 10013
	ServerErrorResumeUnreadable  = 10014
	// 2开头表示外部服务错误。
	ServerErrorUploadNoResult = 20003
)

var (
	ErrApplicantNotFound = &ServerError{Code: ServerErrorApplicantNotFound, Summary: "applicant not found"}
	ErrDuplicateCode     = &ServerError{Code: ServerErrorDuplicateCode, Summary: "interview code already used"}
	ErrResumeTooLarge    = &ServerError{Code: ServerErrorResumeTooLarge, Summary: "resume exceeds the size limit"}
	ErrResumeUnreadable  = &ServerError{Code: ServerErrorResumeUnreadable, Summary: "resume text could not be extracted"}
	ErrUploadNoResult    = &ServerError{Code: ServerErrorUploadNoResult, Summary: "object storage returned no key"}
)
