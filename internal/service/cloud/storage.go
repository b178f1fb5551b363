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
	"io"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/qiniu/go-sdk/v7/auth/qbox"
	"github.com/qiniu/go-sdk/v7/storage"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/interview-prep/internal/common/utils"
	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
)

const (
	// PagesParam 自定义变量，记录pdf简历的页数。
	PagesParam = "x:pages"

	uploadReturnBody = `{"key":"$(key)","hash":"$(etag)","fsize":$(fsize),"mimeType":"$(mimeType)","pages":"$(x:pages)"}`
)

var (
	defaultLogger = xlog.New("default service logger")

	zones = map[string]*storage.Zone{
		"z0":  &storage.ZoneHuadong,
		"z1":  &storage.ZoneHuabei,
		"z2":  &storage.ZoneHuanan,
		"na0": &storage.ZoneBeimei,
		"as0": &storage.ZoneXinjiapo,
	}
)

// ObjectPutter 表单上传接口，由 *storage.FormUploader 实现。
type ObjectPutter interface {
	Put(ctx context.Context, ret interface{}, uptoken, key string, data io.Reader, size int64, extra *storage.PutExtra) error
}

// UploadRet 上传成功后七牛返回的结果，格式由 uploadReturnBody 决定。
type UploadRet struct {
	Key      string `json:"key"`
	Hash     string `json:"hash"`
	Fsize    int64  `json:"fsize"`
	MimeType string `json:"mimeType"`
	Pages    string `json:"pages"`
}

// StorageService 简历上传至七牛对象存储。
type StorageService struct {
	bucket    string
	urlPrefix string
	mac       *qbox.Mac
	uploader  ObjectPutter
	xl        *xlog.Logger
}

func NewStorageService(conf utils.Config) *StorageService {
	cfg := storage.Config{}
	// 空间对应的机房
	cfg.Zone = zones[conf.Storage.Zone]
	if cfg.Zone == nil {
		cfg.Zone = &storage.ZoneHuanan
	}
	// 是否使用https域名
	cfg.UseHTTPS = true
	// 上传是否使用CDN上传加速
	cfg.UseCdnDomains = conf.Storage.UseCdnDomains
	return NewStorageServiceWithPutter(conf, storage.NewFormUploader(&cfg))
}

// NewStorageServiceWithPutter uses putter instead of a qiniu form uploader.
func NewStorageServiceWithPutter(conf utils.Config, putter ObjectPutter) *StorageService {
	return &StorageService{
		bucket:    conf.Storage.Bucket,
		urlPrefix: conf.Storage.URLPrefix,
		mac:       qbox.NewMac(conf.QiniuKeyPair.AccessKey, conf.QiniuKeyPair.SecretKey),
		uploader:  putter,
		xl:        xlog.New("storage service"),
	}
}

// Upload stores content under name and returns its https url. The put policy is
// scoped to bucket:name so a second upload of the same name overwrites the first.
// Failures of the object store, panics included, come back as an error matching
// errors2.ErrUploadNoResult.
func (s *StorageService) Upload(ctx context.Context, xl *xlog.Logger, content []byte, name string) (fileURL string, err error) {
	if xl == nil {
		xl = defaultLogger
	}
	defer func() {
		if r := recover(); r != nil {
			xl.Errorf("file uploading panicked: %v", r)
			fileURL = ""
			err = &errors2.ServerError{Code: errors2.ServerErrorUploadNoResult, Summary: fmt.Sprint(r)}
		}
	}()

	putPolicy := storage.PutPolicy{
		Scope:      s.bucket + ":" + name,
		ReturnBody: uploadReturnBody,
		DetectMime: 1,
	}
	upToken := putPolicy.UploadToken(s.mac)

	mtype := mimetype.Detect(content)
	extra := &storage.PutExtra{
		MimeType: mtype.String(),
		Params:   map[string]string{},
	}
	if mtype.Is(mimePDF) {
		pages, perr := CountPDFPages(content)
		if perr != nil {
			xl.Warnf("count pages of %s failed: %v", name, perr)
		} else {
			extra.Params[PagesParam] = strconv.Itoa(pages)
		}
	}

	ret := UploadRet{}
	dataLen := int64(len(content))
	err = s.uploader.Put(ctx, &ret, upToken, name, bytes.NewReader(content), dataLen, extra)
	if err != nil {
		xl.Errorf("file uploading failed err:%v", err)
		return "", &errors2.ServerError{Code: errors2.ServerErrorUploadNoResult, Summary: err.Error()}
	}
	if ret.Key == "" {
		xl.Errorf("file uploading returned no key for %s", name)
		return "", errors2.ErrUploadNoResult
	}
	fileURL = storage.MakePublicURL(s.urlPrefix, ret.Key)
	xl.Infof("file upload success, key %s mime %s pages %q", ret.Key, ret.MimeType, ret.Pages)
	return fileURL, nil
}
