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

package web

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	"github.com/solutions/interview-prep/internal/common/utils"
	"github.com/solutions/interview-prep/internal/protodef/model"
	"github.com/solutions/interview-prep/internal/service/cloud"
	"github.com/solutions/interview-prep/internal/service/db"
	"github.com/solutions/interview-prep/internal/service/intake"
	"github.com/solutions/interview-prep/internal/service/relay"
	"github.com/solutions/interview-prep/internal/service/web/handler"
)

// NewRouter 创建依赖的各个Service，返回gin router。
func NewRouter(config *utils.Config, applicantService *db.ApplicantService) *gin.Engine {
	// 1. 声明Service
	storageService := cloud.NewStorageService(*config)
	intakeService := intake.NewService(storageService, applicantService, *config.Intake)
	deepSeekClient := cloud.NewDeepSeekClient(config.DeepSeek, nil)
	resumeFetcher := cloud.NewResumeFetcher(nil, config.Intake.MaxResumeSize)

	// 2. 声明Handler
	applicantApiHandler := handler.NewApplicantApiHandler(intakeService, applicantService)
	roomApiHandler := handler.NewRoomApiHandler(
		relay.NewRelay(deepSeekClient),
		relay.NewPromptBuilder(applicantService, resumeFetcher),
	)
	return NewEngine(applicantApiHandler, roomApiHandler)
}

// NewEngine 配置路由。
func NewEngine(applicantApiHandler *handler.ApplicantApiHandler, roomApiHandler *handler.RoomApiHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	// 全局CORS配置
	router.Use(corsMiddleware())
	router.Use(addRequestID, accessLog)

	router.GET("/", health)
	router.POST("/applicant-form", applicantApiHandler.Submit)
	router.GET("/applicants", applicantApiHandler.List)
	router.GET("/applicant/:interview_code", applicantApiHandler.Get)
	router.GET("/room", roomApiHandler.Chat)

	router.NoRoute(returnNotFound)
	return router
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{Message: model.HealthMessage})
}

func addRequestID(c *gin.Context) {
	requestID := ""
	if requestID = c.Request.Header.Get(model.RequestIDHeader); requestID == "" {
		requestID = utils.NewReqID()
		c.Request.Header.Set(model.RequestIDHeader, requestID)
	}
	xl := xlog.New(requestID)
	xl.Debugf("request: %s %s", c.Request.Method, c.Request.URL.Path)
	c.Set(model.XLogKey, xl)
	c.Set(model.RequestStartKey, time.Now())
	c.Header(model.RequestIDHeader, requestID)
}

func accessLog(c *gin.Context) {
	c.Next()
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	start := c.MustGet(model.RequestStartKey).(time.Time)
	xl.Infof("%s %s %d %v", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
}

func returnNotFound(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	xl.Debugf("%s %s: not found", c.Request.Method, c.Request.URL.Path)
	c.JSON(http.StatusNotFound, model.DetailResponse{Detail: "Not Found"})
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Encoding", "Authorization", "Cache-Control", "X-Requested-With", model.RequestIDHeader},
		ExposeHeaders:    []string{model.RequestIDHeader},
		MaxAge:           12 * time.Hour,
	})
}
