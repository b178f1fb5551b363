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

/*
	http_model.go: 规定API的参数与返回值的定义，***Response表示 *** 接口的返回体格式。
*/

const (
	// RequestIDHeader 七牛 request ID 头部。
	RequestIDHeader = "X-Reqid"
	// XLogKey gin context中，用于获取记录请求相关日志的 xlog logger的key。
	XLogKey = "xlog-logger"

	// RequestStartKey 存放在gin context中的请求开始的时间戳，单位为纳秒。
	RequestStartKey = "request-start-timestamp-nano"

	// HealthMessage body of the root health check.
	HealthMessage = "Server is working fine"
)

// HealthResponse GET / 的返回结果。
type HealthResponse struct {
	Message string `json:"message"`
}

// DetailResponse error body of the applicant endpoints.
type DetailResponse struct {
	Detail string `json:"detail"`
}

// ApplicantListResponse GET /applicants 的返回结果。
type ApplicantListResponse struct {
	Applicants []ApplicantDo `json:"applicants"`
}

// ApplicantResponse GET /applicant/:interview_code 的返回结果。
type ApplicantResponse struct {
	Applicant *ApplicantDo `json:"applicant"`
}
