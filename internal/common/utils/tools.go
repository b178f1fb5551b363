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

package utils

import (
	"encoding/base64"
	"encoding/binary"
	"math/rand"
	"strings"
	"time"
)

const (
	// InterviewCodeAlphabet symbols an interview code is drawn from.
	InterviewCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	InterviewCodeLength   = 15
)

// GenerateInterviewCode utils func: for 15-digit random interview code generation
func GenerateInterviewCode() string {
	stringBuilder := strings.Builder{}
	stringBuilder.Grow(InterviewCodeLength)
	for i := 0; i < InterviewCodeLength; i++ {
		index := rand.Intn(len(InterviewCodeAlphabet))
		stringBuilder.WriteByte(InterviewCodeAlphabet[index])
	}
	return stringBuilder.String()
}

// ResumeObjectName storage key of an applicant's resume, stable for the same name.
func ResumeObjectName(firstname, lastname string) string {
	return firstname + lastname + "-RESUME"
}

var pid = uint32(time.Now().UnixNano() % 4294967291)

// NewReqID for generate req id
func NewReqID() string {
	var b [12]byte
	binary.LittleEndian.PutUint32(b[:], pid)
	binary.LittleEndian.PutUint64(b[4:], uint64(time.Now().UnixNano()))
	return base64.URLEncoding.EncodeToString(b[:])
}
