package relay

import (
	"context"
	"strings"

	"github.com/qiniu/x/xlog"

	"github.com/solutions/interview-prep/internal/service/cloud"
	"github.com/solutions/interview-prep/internal/service/db"
)

// ResumeUnavailable stands in for the resume text when it cannot be fetched.
const ResumeUnavailable = "(resume not available)"

const interviewPromptTemplate = `You are a highly skilled professional interviewer with expertise in technical, social and psychological interviews. Simulate a realistic interview for {firstname}, who applied for the {role} role. You have ATS (Applicant Tracking System) capabilities: analyse the resume below and tailor every question to it.

Resume: {resume}

Keep the interview natural, conversational and human. Cover the following:

1. Technical interview:
   - Evaluate their knowledge, skills and experience for the {role} role.
   - Ask in-depth, role specific questions that test problem solving.

2. Fit for the role:
   - Ask why they believe they are the best fit.
   - Ask for accomplishments or experiences that match the role's requirements.

3. Sentiment analysis:
   - Ask open-ended questions about motivation, emotional resilience and handling challenges.
   - Pay attention to tone, confidence and clarity.

4. Social skills:
   - Ask about communication style, teamwork and how they work with others.
   - Use scenarios or behavioural questions to assess interpersonal skills.

Open with a question that sets the tone, for example:
- "Hello! Thank you for joining us today. Can you tell me about yourself and your experience relevant to the {role} position?"
- "Welcome to the interview! Could you walk me through your resume and highlight what makes you a good fit for the {role}?"

Adapt follow-up questions to their answers so they feel natural and insightful. Do not make it obvious that you are an AI model.`

// BuildInterviewPrompt 生成面试官角色的 system prompt。
func BuildInterviewPrompt(firstname, role, resume string) string {
	return strings.NewReplacer(
		"{firstname}", firstname,
		"{role}", role,
		"{resume}", resume,
	).Replace(interviewPromptTemplate)
}

// ResumeReader 读取简历文本，由 *cloud.ResumeFetcher 实现。
type ResumeReader interface {
	FetchText(ctx context.Context, xl *xlog.Logger, resumeURL string) (string, error)
}

// PromptBuilder picks the system prompt of a chat session.
type PromptBuilder struct {
	store   db.ApplicantDaoInterface
	resumes ResumeReader
}

func NewPromptBuilder(store db.ApplicantDaoInterface, resumes ResumeReader) *PromptBuilder {
	return &PromptBuilder{store: store, resumes: resumes}
}

// SystemPrompt returns the default prompt for an empty code, otherwise the interview
// prompt of the applicant holding interviewCode. An unknown code is an error, an
// unreadable resume is not.
func (p *PromptBuilder) SystemPrompt(ctx context.Context, xl *xlog.Logger, interviewCode string) (string, error) {
	if interviewCode == "" {
		return cloud.DefaultSystemPrompt, nil
	}
	if xl == nil {
		xl = xlog.New("prompt builder")
	}
	applicant, err := p.store.FindByCode(xl, interviewCode)
	if err != nil {
		return "", err
	}
	resume, err := p.resumes.FetchText(ctx, xl, applicant.ResumeURL)
	if err != nil {
		xl.Warnf("resume of %s unavailable, error %v", interviewCode, err)
		resume = ResumeUnavailable
	}
	return BuildInterviewPrompt(applicant.FirstName, applicant.Role, resume), nil
}
