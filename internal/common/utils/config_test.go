package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func validConf() *Config {
	conf := NewSample()
	conf.QiniuKeyPair = QiniuKeyPair{AccessKey: "ak", SecretKey: "sk"}
	conf.Storage.Bucket = "resumes"
	conf.Storage.URLPrefix = "https://cdn.example.com"
	conf.DeepSeek.APIKey = "key"
	return conf
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing bucket", func(c *Config) { c.Storage.Bucket = "" }, true},
		{"plain http url prefix", func(c *Config) { c.Storage.URLPrefix = "http://cdn.example.com" }, true},
		{"unknown zone", func(c *Config) { c.Storage.Zone = "moon" }, true},
		{"missing secret key", func(c *Config) { c.QiniuKeyPair.SecretKey = "" }, true},
		{"missing deepseek key", func(c *Config) { c.DeepSeek.APIKey = "" }, true},
		{"missing mongo", func(c *Config) { c.Mongo = nil }, true},
		{"zero code attempts", func(c *Config) { c.Intake.CodeAttempts = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conf := validConf()
			tt.mutate(conf)
			err := conf.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MONGO_URI":    "mongodb://db:27017",
		"CLOUD_NAME":   "bucket-from-cloud-name",
		"QINIU_BUCKET": "ignored",
		"API_KEY":      "ak",
		"API_SECRET":   "sk",
		"deepseek_api": "ds-key",
		"LISTEN_ADDR":  " :9000 ",

		"MONGO_TLS":          "true",
		"MONGO_TLS_INSECURE": "maybe",
	}
	conf := NewSample()
	conf.ApplyEnv(func(key string) string { return env[key] })

	if conf.Mongo.URI != "mongodb://db:27017" {
		t.Errorf("Mongo.URI = %q", conf.Mongo.URI)
	}
	if conf.Storage.Bucket != "bucket-from-cloud-name" {
		t.Errorf("Storage.Bucket = %q, want first matching variable", conf.Storage.Bucket)
	}
	if conf.QiniuKeyPair.AccessKey != "ak" || conf.QiniuKeyPair.SecretKey != "sk" {
		t.Errorf("QiniuKeyPair = %+v", conf.QiniuKeyPair)
	}
	if conf.DeepSeek.APIKey != "ds-key" {
		t.Errorf("DeepSeek.APIKey = %q", conf.DeepSeek.APIKey)
	}
	if conf.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %q", conf.ListenAddr)
	}
	if conf.Mongo.Database != "Apllicant" {
		t.Errorf("Mongo.Database = %q, want sample default kept", conf.Mongo.Database)
	}
	if !conf.Mongo.TLS || conf.Mongo.TLSInsecureSkipVerify {
		t.Errorf("Mongo tls = %v insecure = %v, want true false", conf.Mongo.TLS, conf.Mongo.TLSInsecureSkipVerify)
	}
}

func TestLoadConfOverlaysFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "interview-prep.conf")
	content := `{
	"listen_addr": ":8123",
	"storage": {"bucket": "from-file", "url_prefix": "https://files.example.com"},
	"intake": {"persist_on_upload_failure": false}
}`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"LISTEN_ADDR", "CLOUD_NAME", "QINIU_BUCKET"} {
		t.Setenv(key, "")
	}

	conf, err := LoadConf(path)
	if err != nil {
		t.Fatalf("LoadConf() error = %v", err)
	}
	if conf.ListenAddr != ":8123" {
		t.Errorf("ListenAddr = %q", conf.ListenAddr)
	}
	if conf.Storage.Bucket != "from-file" || conf.Storage.Zone != "z2" {
		t.Errorf("Storage = %+v, want file values over sample defaults", conf.Storage)
	}
	if conf.Intake.PersistOnUploadFailure {
		t.Error("Intake.PersistOnUploadFailure = true, want file value false")
	}
	if conf.Intake.CodeAttempts != 3 {
		t.Errorf("Intake.CodeAttempts = %d, want sample default", conf.Intake.CodeAttempts)
	}
}

func TestLoadConfMissingFile(t *testing.T) {
	conf, err := LoadConf(filepath.Join(t.TempDir(), "absent.conf"))
	if err != nil {
		t.Fatalf("LoadConf() error = %v", err)
	}
	if conf.Mongo == nil || conf.Intake == nil {
		t.Fatal("LoadConf() did not fall back to sample config")
	}
}
