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
	"os"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	qconfig "github.com/qiniu/x/config"
	"github.com/qiniu/x/log"
)

var (
	DefaultConf Config

	regHTTPS = regexp.MustCompile(`^https://`)
)

// InitConf loads the config file and the environment into DefaultConf, exits on failure.
func InitConf(configFilePath string) {
	conf, err := LoadConf(configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file, error %v", err)
	}
	if err := conf.Validate(); err != nil {
		log.Fatalf("invalid config, error %v", err)
	}
	DefaultConf = *conf
}

// LoadConf starts from NewSample, overlays configFilePath when it exists, then
// applies .env and process environment overrides. The result is not validated.
func LoadConf(configFilePath string) (*Config, error) {
	conf := NewSample()
	if configFilePath != "" {
		_, err := os.Stat(configFilePath)
		switch {
		case err == nil:
			if err := qconfig.LoadFile(conf, configFilePath); err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
			log.Infof("config file %s not found, using defaults", configFilePath)
		default:
			return nil, err
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, using process environment")
	}
	conf.ApplyEnv(os.Getenv)
	return conf, nil
}

// MongoConfig mongo 数据库配置。
type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
	// KeepaliveSecond interval of the session keepalive task, 0 disables it.
	KeepaliveSecond int `json:"keepalive_s"`
	// TLS dials every server over tls, also turned on by tls=true in URI.
	TLS bool `json:"tls"`
	// TLSInsecureSkipVerify accepts any server certificate.
	TLSInsecureSkipVerify bool `json:"tls_insecure_skip_verify"`
}

func (m MongoConfig) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.URI, validation.Required),
		validation.Field(&m.Database, validation.Required),
		validation.Field(&m.KeepaliveSecond, validation.Min(0)),
	)
}

// QiniuKeyPair 七牛APIaccess key/secret key配置。
type QiniuKeyPair struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
}

func (k QiniuKeyPair) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.AccessKey, validation.Required),
		validation.Field(&k.SecretKey, validation.Required),
	)
}

// QiniuStorageConfig 七牛对象存储服务配置。
type QiniuStorageConfig struct {
	// Bucket 上传的文件所在的七牛对象存储bucket。
	Bucket string `json:"bucket"`
	// URLPrefix https domain bound to the bucket, objects are served as URLPrefix/key.
	URLPrefix string `json:"url_prefix"`
	// Zone region id of the bucket: z0, z1, z2, na0 or as0.
	Zone          string `json:"zone"`
	UseCdnDomains bool   `json:"use_cdn_domains"`
}

func (s QiniuStorageConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Bucket, validation.Required),
		validation.Field(&s.URLPrefix, validation.Required, validation.Match(regHTTPS).Error("must be an https url")),
		validation.Field(&s.Zone, validation.In("", "z0", "z1", "z2", "na0", "as0")),
	)
}

// DeepSeekConfig inference service settings.
type DeepSeekConfig struct {
	APIKey  string `json:"api_key"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
}

func (d DeepSeekConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.APIKey, validation.Required),
		validation.Field(&d.BaseURL, validation.Required),
		validation.Field(&d.Model, validation.Required),
	)
}

// IntakeConfig applicant intake policy.
type IntakeConfig struct {
	// PersistOnUploadFailure saves the applicant with an empty resume url when the upload failed.
	PersistOnUploadFailure bool `json:"persist_on_upload_failure"`
	// CodeAttempts how many interview codes are tried before a duplicate key is reported.
	CodeAttempts int `json:"code_attempts"`
	// MaxResumeSize upper bound of the uploaded resume in bytes.
	MaxResumeSize int64 `json:"max_resume_size"`
}

func (i IntakeConfig) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CodeAttempts, validation.Required, validation.Min(1)),
		validation.Field(&i.MaxResumeSize, validation.Required, validation.Min(int64(1))),
	)
}

// Config 后端配置。
type Config struct {
	// debug等级，为1时输出info/warn/error日志，为0除以上外还输出debug日志
	DebugLevel   int                 `json:"debug_level"`
	ListenAddr   string              `json:"listen_addr"`
	Mongo        *MongoConfig        `json:"mongo"`
	QiniuKeyPair QiniuKeyPair        `json:"qiniu_key_pair"`
	Storage      *QiniuStorageConfig `json:"storage"`
	DeepSeek     *DeepSeekConfig     `json:"deepseek"`
	Intake       *IntakeConfig       `json:"intake"`
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ListenAddr, validation.Required),
		validation.Field(&c.Mongo, validation.Required),
		validation.Field(&c.QiniuKeyPair),
		validation.Field(&c.Storage, validation.Required),
		validation.Field(&c.DeepSeek, validation.Required),
		validation.Field(&c.Intake, validation.Required),
	)
}

// ApplyEnv overrides config values with the first non-empty variable of each group.
func (c *Config) ApplyEnv(getenv func(string) string) {
	set := func(dst *string, keys ...string) {
		for _, key := range keys {
			if val := strings.TrimSpace(getenv(key)); val != "" {
				*dst = val
				return
			}
		}
	}
	setBool := func(dst *bool, key string) {
		val := strings.TrimSpace(getenv(key))
		if val == "" {
			return
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			log.Warnf("ignore %s=%q, error %v", key, val, err)
			return
		}
		*dst = b
	}
	set(&c.ListenAddr, "LISTEN_ADDR")
	if c.Mongo == nil {
		c.Mongo = &MongoConfig{}
	}
	set(&c.Mongo.URI, "MONGO_URI")
	set(&c.Mongo.Database, "MONGO_DATABASE")
	setBool(&c.Mongo.TLS, "MONGO_TLS")
	setBool(&c.Mongo.TLSInsecureSkipVerify, "MONGO_TLS_INSECURE")
	set(&c.QiniuKeyPair.AccessKey, "API_KEY", "QINIU_ACCESS_KEY")
	set(&c.QiniuKeyPair.SecretKey, "API_SECRET", "QINIU_SECRET_KEY")
	if c.Storage == nil {
		c.Storage = &QiniuStorageConfig{}
	}
	set(&c.Storage.Bucket, "CLOUD_NAME", "QINIU_BUCKET")
	set(&c.Storage.URLPrefix, "STORAGE_URL_PREFIX")
	set(&c.Storage.Zone, "STORAGE_ZONE")
	if c.DeepSeek == nil {
		c.DeepSeek = &DeepSeekConfig{}
	}
	set(&c.DeepSeek.APIKey, "deepseek_api", "DEEPSEEK_API_KEY")
	set(&c.DeepSeek.BaseURL, "DEEPSEEK_BASE_URL")
	set(&c.DeepSeek.Model, "DEEPSEEK_MODEL")
}

// NewSample 返回样例配置。
func NewSample() *Config {
	return &Config{
		DebugLevel: 0,
		ListenAddr: ":8000",
		Mongo: &MongoConfig{
			URI:             "mongodb://localhost:27017",
			Database:        "Apllicant",
			KeepaliveSecond: 60,
		},
		Storage: &QiniuStorageConfig{
			Zone: "z2",
		},
		DeepSeek: &DeepSeekConfig{
			BaseURL: "https://api.deepseek.com",
			Model:   "deepseek-reasoner",
		},
		Intake: &IntakeConfig{
			PersistOnUploadFailure: true,
			CodeAttempts:           3,
			MaxResumeSize:          10 << 20,
		},
	}
}
