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

package cloud

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/qiniu/x/xlog"

	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
)

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeText = "text/plain"
)

var (
	regXMLTag     = regexp.MustCompile(`<[^>]*>`)
	regParagraph  = regexp.MustCompile(`</w:p>`)
	regBlankLines = regexp.MustCompile(`\n{3,}`)
)

// ResumeFetcher 下载已上传的简历并抽取纯文本。
type ResumeFetcher struct {
	client  *http.Client
	maxSize int64
	xl      *xlog.Logger
}

func NewResumeFetcher(client *http.Client, maxSize int64) *ResumeFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &ResumeFetcher{
		client:  client,
		maxSize: maxSize,
		xl:      xlog.New("resume fetcher"),
	}
}

// FetchText downloads resumeURL and returns its plain text.
func (f *ResumeFetcher) FetchText(ctx context.Context, xl *xlog.Logger, resumeURL string) (string, error) {
	if xl == nil {
		xl = f.xl
	}
	if resumeURL == "" {
		return "", errors2.ErrResumeUnreadable
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resumeURL, nil)
	if err != nil {
		return "", NewCallError(resumeURL, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		xl.Errorf("call error %+v", err)
		return "", NewCallError(resumeURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		xl.Errorf("StatusCode %d", resp.StatusCode)
		return "", NewStatusCodeError(resp.StatusCode, resp.Status)
	}
	content, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return "", NewCallError(resumeURL, err)
	}
	if int64(len(content)) > f.maxSize {
		return "", errors2.ErrResumeTooLarge
	}
	return ExtractResumeText(content)
}

// ExtractResumeText returns the plain text of a pdf, docx or text resume.
func ExtractResumeText(content []byte) (text string, err error) {
	mtype := mimetype.Detect(content)
	switch {
	case mtype.Is(mimePDF):
		text, err = extractPDFText(content)
	case mtype.Is(mimeDOCX):
		text, err = extractDOCXText(content)
	case isText(mtype):
		text = string(content)
	default:
		return "", fmt.Errorf("unsupported resume type %s", mtype.String())
	}
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors2.ErrResumeUnreadable
	}
	return text, nil
}

// CountPDFPages 返回pdf的页数。
func CountPDFPages(content []byte) (n int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

func extractPDFText(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n\n")
	}
	return textBuilder.String(), nil
}

func extractDOCXText(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX: %w", err)
	}
	defer doc.Close()
	body := doc.Editable().GetContent()
	body = regParagraph.ReplaceAllString(body, "\n")
	body = regXMLTag.ReplaceAllString(body, "")
	body = regBlankLines.ReplaceAllString(body, "\n\n")
	return html.UnescapeString(body), nil
}

func isText(mtype *mimetype.MIME) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(mimeText) {
			return true
		}
	}
	return false
}
