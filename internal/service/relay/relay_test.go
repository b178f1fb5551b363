package relay

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/qiniu/x/xlog"

	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
	"github.com/solutions/interview-prep/internal/protodef/model"
	"github.com/solutions/interview-prep/internal/service/cloud"
)

type fakeCompleter struct {
	raw        string
	err        error
	lastSystem string
	lastText   string
}

func (f *fakeCompleter) ChatCompletion(ctx context.Context, xl *xlog.Logger, system, text string) (string, error) {
	f.lastSystem, f.lastText = system, text
	return f.raw, f.err
}

func TestReply(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		err  error
		want string
	}{
		{"raw body", `{"choices":[]}`, nil, `{"choices":[]}`},
		{"status error", "", cloud.NewStatusCodeError(402, "402 Payment Required"), "Request failed with status code 402: Payment Required"},
		{"call error", "", cloud.NewCallError("https://api.deepseek.com/chat/completions", errors.New("dial tcp: i/o timeout")), "Error occurred: dial tcp: i/o timeout"},
		{"other error", "", errors.New("boom"), "Error occurred: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{raw: tt.raw, err: tt.err}
			r := NewRelay(completer)
			if got := r.Reply(context.Background(), nil, cloud.DefaultSystemPrompt, "hello"); got != tt.want {
				t.Errorf("Reply() = %q, want %q", got, tt.want)
			}
			if completer.lastText != "hello" || completer.lastSystem != cloud.DefaultSystemPrompt {
				t.Errorf("completer got (%q, %q)", completer.lastSystem, completer.lastText)
			}
		})
	}
}

func TestBuildInterviewPrompt(t *testing.T) {
	prompt := BuildInterviewPrompt("victor", "dev", "Go, MongoDB")
	for _, want := range []string{"for victor, who applied for the dev role", "Resume: Go, MongoDB", "relevant to the dev position"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt lacks %q", want)
		}
	}
	if strings.Contains(prompt, "{") {
		t.Error("prompt still has placeholders")
	}
}

type fakeStore struct {
	applicant *model.ApplicantDo
}

func (f *fakeStore) Save(xl *xlog.Logger, applicant *model.ApplicantDo) error { return nil }

func (f *fakeStore) FindByCode(xl *xlog.Logger, code string) (*model.ApplicantDo, error) {
	if f.applicant == nil || f.applicant.InterviewCode != code {
		return nil, errors2.ErrApplicantNotFound
	}
	return f.applicant, nil
}

func (f *fakeStore) ListAll(xl *xlog.Logger) ([]model.ApplicantDo, error) { return nil, nil }

type fakeResumes struct {
	text string
	err  error
}

func (f fakeResumes) FetchText(ctx context.Context, xl *xlog.Logger, resumeURL string) (string, error) {
	return f.text, f.err
}

func TestSystemPrompt(t *testing.T) {
	store := &fakeStore{applicant: &model.ApplicantDo{FirstName: "victor", Role: "dev", InterviewCode: "AFSASFDED", ResumeURL: "https://hg.com"}}
	xl := xlog.New("test")

	p := NewPromptBuilder(store, fakeResumes{text: "Go, MongoDB"})
	if got, err := p.SystemPrompt(context.Background(), xl, ""); err != nil || got != cloud.DefaultSystemPrompt {
		t.Errorf("SystemPrompt(\"\") = %q, %v", got, err)
	}
	got, err := p.SystemPrompt(context.Background(), xl, "AFSASFDED")
	if err != nil || got != BuildInterviewPrompt("victor", "dev", "Go, MongoDB") {
		t.Errorf("SystemPrompt(code) = %q, %v", got, err)
	}
	if _, err := p.SystemPrompt(context.Background(), xl, "UNKNOWN"); err != errors2.ErrApplicantNotFound {
		t.Errorf("SystemPrompt(unknown) error = %v", err)
	}

	p = NewPromptBuilder(store, fakeResumes{err: errors.New("404")})
	got, err = p.SystemPrompt(context.Background(), xl, "AFSASFDED")
	if err != nil || !strings.Contains(got, "Resume: "+ResumeUnavailable) {
		t.Errorf("SystemPrompt(unreadable resume) = %q, %v", got, err)
	}
}
