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

// mock-interview runs an interview turn by turn on the terminal from a local resume file.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/qiniu/x/log"
	"github.com/qiniu/x/xlog"
	"github.com/tidwall/gjson"

	"github.com/solutions/interview-prep/internal/common/utils"
	"github.com/solutions/interview-prep/internal/service/cloud"
	"github.com/solutions/interview-prep/internal/service/relay"
)

const openingMessage = "Hello, I am ready for the interview."

var (
	configFilePath = "interview-prep.conf"
	resumePath     string
	role           string
	firstname      string
	raw            bool
)

func main() {
	flag.StringVar(&configFilePath, "f", configFilePath, "configuration file holding the deepseek settings")
	flag.StringVar(&resumePath, "resume", "", "path of the resume file, pdf, docx or text")
	flag.StringVar(&role, "role", "", "role applied for")
	flag.StringVar(&firstname, "firstname", "candidate", "first name of the candidate")
	flag.BoolVar(&raw, "raw", false, "print raw response bodies")
	flag.Parse()

	if resumePath == "" || role == "" {
		flag.Usage()
		os.Exit(2)
	}
	conf, err := utils.LoadConf(configFilePath)
	if err != nil {
		log.Fatalf("failed to load config file, error %v", err)
	}
	if err := conf.DeepSeek.Validate(); err != nil {
		log.Fatalf("invalid deepseek config, error %v", err)
	}
	log.SetOutputLevel(conf.DebugLevel)

	content, err := os.ReadFile(resumePath)
	if err != nil {
		log.Fatalf("failed to read resume %s, error %v", resumePath, err)
	}
	resume, err := cloud.ExtractResumeText(content)
	if err != nil {
		log.Fatalf("failed to extract resume text, error %v", err)
	}

	system := relay.BuildInterviewPrompt(firstname, role, resume)
	r := relay.NewRelay(cloud.NewDeepSeekClient(conf.DeepSeek, nil))
	if err := run(context.Background(), r, system, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("interview stopped, error %v", err)
	}
}

// run sends the opening message then one turn per input line until EOF.
func run(ctx context.Context, r *relay.Relay, system string, in io.Reader, out io.Writer) error {
	xl := xlog.New(utils.NewReqID())
	reply := r.Reply(ctx, xl, system, openingMessage)
	fmt.Fprintf(out, "interviewer> %s\n", render(reply))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		reply = r.Reply(ctx, xl, system, text)
		fmt.Fprintf(out, "interviewer> %s\n", render(reply))
	}
}

// render picks the assistant message out of a completion body, anything else is shown as is.
func render(reply string) string {
	if raw || !gjson.Valid(reply) {
		return reply
	}
	if content := gjson.Get(reply, "choices.0.message.content"); content.Exists() {
		return content.String()
	}
	return reply
}
