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

package db

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gopkg.in/mgo.v2"

	"github.com/solutions/interview-prep/internal/common/utils"
)

const (
	defaultDialTimeout = 10 * time.Second
	srvScheme          = "mongodb+srv://"
)

var (
	lookupSRV = net.LookupSRV
	lookupTXT = net.LookupTXT
)

// mongoDialInfo parses conf.URI for mgo.DialWithInfo. mgo knows neither the
// tls options nor the mongodb+srv scheme. The tls, ssl, tlsAllowInvalidCertificates
// and tlsInsecure options are taken out of the url and, with conf.TLS, give a
// DialServer doing a tls handshake. The returned tls.Config is nil for plain
// connections.
func mongoDialInfo(conf utils.MongoConfig) (*mgo.DialInfo, *tls.Config, error) {
	uri := conf.URI
	useTLS, insecure := conf.TLS, conf.TLSInsecureSkipVerify
	if strings.HasPrefix(uri, srvScheme) {
		resolved, err := resolveSRV(strings.TrimPrefix(uri, srvScheme))
		if err != nil {
			return nil, nil, err
		}
		uri = resolved
		useTLS = true
	}

	base, rawQuery, _ := strings.Cut(uri, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid mongo url options: %w", err)
	}
	for key, vals := range query {
		var dst *bool
		switch strings.ToLower(key) {
		case "tls", "ssl":
			dst = &useTLS
		case "tlsallowinvalidcertificates", "tlsinsecure":
			dst = &insecure
		case "retrywrites", "w", "appname":
			// write concern and driver hints mgo rejects, the session keeps its own safe mode.
			delete(query, key)
			continue
		default:
			continue
		}
		b, err := strconv.ParseBool(vals[len(vals)-1])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid mongo url option %s: %w", key, err)
		}
		*dst = b
		delete(query, key)
	}
	if encoded := query.Encode(); encoded != "" {
		base += "?" + encoded
	}

	info, err := mgo.ParseURL(base)
	if err != nil {
		return nil, nil, err
	}
	if info.Timeout == 0 {
		info.Timeout = defaultDialTimeout
	}
	if !useTLS {
		return info, nil, nil
	}
	tlsConf := &tls.Config{InsecureSkipVerify: insecure}
	dialer := &net.Dialer{Timeout: info.Timeout}
	info.DialServer = func(addr *mgo.ServerAddr) (net.Conn, error) {
		return tls.DialWithDialer(dialer, "tcp", addr.String(), tlsConf)
	}
	return info, tlsConf, nil
}

// resolveSRV turns the part after mongodb+srv:// into a mongodb:// url listing
// the servers of the SRV record. Options of the TXT record are added unless the
// url sets them already.
func resolveSRV(rest string) (string, error) {
	authority, path := rest, ""
	if i := strings.IndexAny(rest, "/?"); i >= 0 {
		authority, path = rest[:i], rest[i:]
	}
	userinfo, host := "", authority
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		userinfo, host = authority[:i+1], authority[i+1:]
	}
	if host == "" || strings.ContainsAny(host, ":,") {
		return "", fmt.Errorf("mongodb+srv url needs a single host without port, got %q", host)
	}

	_, records, err := lookupSRV("mongodb", "tcp", host)
	if err != nil {
		return "", fmt.Errorf("lookup srv of %s: %w", host, err)
	}
	if len(records) == 0 {
		return "", fmt.Errorf("no srv record for %s", host)
	}
	servers := make([]string, 0, len(records))
	for _, r := range records {
		servers = append(servers, net.JoinHostPort(strings.TrimSuffix(r.Target, "."), strconv.Itoa(int(r.Port))))
	}

	dbPath, rawQuery, _ := strings.Cut(path, "?")
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("invalid mongo url options: %w", err)
	}
	if txts, err := lookupTXT(host); err == nil {
		for _, txt := range txts {
			opts, err := url.ParseQuery(txt)
			if err != nil {
				return "", fmt.Errorf("invalid txt record of %s: %w", host, err)
			}
			for key, vals := range opts {
				if _, ok := query[key]; !ok {
					query[key] = vals
				}
			}
		}
	}

	resolved := "mongodb://" + userinfo + strings.Join(servers, ",") + dbPath
	if encoded := query.Encode(); encoded != "" {
		if dbPath == "" {
			resolved += "/"
		}
		resolved += "?" + encoded
	}
	return resolved, nil
}
