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
	"time"

	"github.com/qiniu/x/xlog"
	"gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/solutions/interview-prep/internal/common/utils"
	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
	"github.com/solutions/interview-prep/internal/protodef/model"
	"github.com/solutions/interview-prep/internal/service/db/dao"
)

// ApplicantDaoInterface 求职者记录的读写接口，记录只增不改。
type ApplicantDaoInterface interface {
	Save(xl *xlog.Logger, applicant *model.ApplicantDo) error

	FindByCode(xl *xlog.Logger, interviewCode string) (*model.ApplicantDo, error)

	ListAll(xl *xlog.Logger) ([]model.ApplicantDo, error)
}

type ApplicantService struct {
	mongoClient *mgo.Session
	database    string
	xl          *xlog.Logger
}

func NewApplicantService(conf utils.MongoConfig, xl *xlog.Logger) (*ApplicantService, error) {
	if xl == nil {
		xl = xlog.New("interview-prep-applicant")
	}
	info, _, err := mongoDialInfo(conf)
	if err != nil {
		xl.Errorf("invalid mongo uri, error %v", err)
		return nil, err
	}
	mongoClient, err := mgo.DialWithInfo(info)
	if err != nil {
		xl.Errorf("failed to create mongo client, error %v", err)
		return nil, err
	}
	mongoClient.SetMode(mgo.Monotonic, true)
	s := &ApplicantService{
		mongoClient: mongoClient,
		database:    conf.Database,
		xl:          xl,
	}
	err = s.withCollection(func(coll *mgo.Collection) error {
		return coll.EnsureIndex(mgo.Index{
			Key:        []string{dao.FieldInterviewCode},
			Unique:     true,
			Background: true,
		})
	})
	if err != nil {
		xl.Warnf("failed to ensure unique index on %s, error %v", dao.FieldInterviewCode, err)
	}
	return s, nil
}

// withCollection runs f against a copy of the shared session.
func (s *ApplicantService) withCollection(f func(coll *mgo.Collection) error) error {
	session := s.mongoClient.Copy()
	defer session.Close()
	return f(session.DB(s.database).C(dao.CollectionApplicants))
}

// Save inserts applicant, filling its ID and CreateTime. A taken interview code
// returns errors2.ErrDuplicateCode.
func (s *ApplicantService) Save(xl *xlog.Logger, applicant *model.ApplicantDo) error {
	if xl == nil {
		xl = s.xl
	}
	if applicant.ID == "" {
		applicant.ID = bson.NewObjectId()
	}
	applicant.CreateTime = time.Now()
	err := s.withCollection(func(coll *mgo.Collection) error {
		return coll.Insert(applicant)
	})
	if err != nil {
		if mgo.IsDup(err) {
			xl.Infof("interview code %s already used", applicant.InterviewCode)
			applicant.ID = ""
			return errors2.ErrDuplicateCode
		}
		xl.Errorf("failed to insert applicant %s %s, error %v", applicant.FirstName, applicant.LastName, err)
		return err
	}
	xl.Infof("applicant %s saved with interview code %s", applicant.ID.Hex(), applicant.InterviewCode)
	return nil
}

func (s *ApplicantService) FindByCode(xl *xlog.Logger, interviewCode string) (*model.ApplicantDo, error) {
	if xl == nil {
		xl = s.xl
	}
	applicant := model.ApplicantDo{}
	err := s.withCollection(func(coll *mgo.Collection) error {
		return coll.Find(bson.M{dao.FieldInterviewCode: interviewCode}).One(&applicant)
	})
	if err != nil {
		switch err {
		case mgo.ErrNotFound:
			xl.Infof("can't find applicant with interview code %s", interviewCode)
			return nil, errors2.ErrApplicantNotFound
		default:
			xl.Errorf("failed to find applicant with interview code %s, error %v", interviewCode, err)
			return nil, err
		}
	}
	return &applicant, nil
}

// ListAll returns every applicant in insertion order.
func (s *ApplicantService) ListAll(xl *xlog.Logger) ([]model.ApplicantDo, error) {
	if xl == nil {
		xl = s.xl
	}
	applicants := make([]model.ApplicantDo, 0)
	err := s.withCollection(func(coll *mgo.Collection) error {
		return coll.Find(nil).Sort("_id").All(&applicants)
	})
	if err != nil {
		xl.Errorf("failed to list applicants, error %v", err)
		return nil, err
	}
	return applicants, nil
}

// Ping 检查与mongo的连接，失败时刷新会话。
func (s *ApplicantService) Ping(xl *xlog.Logger) error {
	if xl == nil {
		xl = s.xl
	}
	if err := s.mongoClient.Ping(); err != nil {
		xl.Warnf("mongo ping failed, refreshing session, error %v", err)
		s.mongoClient.Refresh()
		return err
	}
	return nil
}

func (s *ApplicantService) Close() {
	s.mongoClient.Close()
}
