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

package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jasonlvhit/gocron"
	"github.com/qiniu/x/log"

	"github.com/solutions/interview-prep/internal/common/utils"
	"github.com/solutions/interview-prep/internal/service/db"
	"github.com/solutions/interview-prep/internal/service/task"
	"github.com/solutions/interview-prep/internal/service/web"
)

const shutdownTimeout = 10 * time.Second

var (
	configFilePath = "interview-prep.conf"
)

func main() {
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file to run interview-prep server")
	flag.Parse()

	utils.InitConf(configFilePath)
	log.SetOutputLevel(utils.DefaultConf.DebugLevel)

	applicantService, err := db.NewApplicantService(*utils.DefaultConf.Mongo, nil)
	if err != nil {
		log.Fatalf("failed to connect mongo, error %v", err)
	}
	defer applicantService.Close()

	// 启动定时任务
	keepaliveTask := task.NewKeepaliveTask(applicantService)
	if keepaliveTask.Schedule(utils.DefaultConf.Mongo.KeepaliveSecond) {
		go func() {
			<-gocron.Start()
		}()
	}

	// 启动 gin HTTP server。
	r := web.NewRouter(&utils.DefaultConf, applicantService)
	server := &http.Server{
		Addr:    utils.DefaultConf.ListenAddr,
		Handler: r,
	}
	errch := make(chan error, 1)
	go func() {
		log.Infof("interview-prep listening on %s", server.Addr)
		errch <- server.ListenAndServe()
	}()

	qC := make(chan os.Signal, 1)
	signal.Notify(qC, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-qC:
		log.Info(s.String())
	case err = <-errch:
		log.Error("http server stopped, error", err.Error())
		return
	}

	gocron.Clear()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("http server shutdown, error %v", err)
	}
}
