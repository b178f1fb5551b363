package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/x/xlog"

	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
	"github.com/solutions/interview-prep/internal/protodef/form"
	"github.com/solutions/interview-prep/internal/protodef/model"
	"github.com/solutions/interview-prep/internal/service/db"
)

// Submitter 求职者表单提交，由 *intake.Service 实现。
type Submitter interface {
	SubmitForm(ctx context.Context, xl *xlog.Logger, f *form.ApplicantForm) (*model.SaveResult, error)
}

type ApplicantApiHandler struct {
	Intake     Submitter
	Applicants db.ApplicantDaoInterface
}

func NewApplicantApiHandler(intake Submitter, applicants db.ApplicantDaoInterface) *ApplicantApiHandler {
	return &ApplicantApiHandler{
		Intake:     intake,
		Applicants: applicants,
	}
}

// Submit POST /applicant-form
func (h *ApplicantApiHandler) Submit(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	args := form.ApplicantForm{}
	if err := c.ShouldBind(&args); err != nil {
		xl.Infof("invalid applicant form, error %v", err)
		c.JSON(http.StatusUnprocessableEntity, model.DetailResponse{Detail: err.Error()})
		return
	}
	if err := args.Validate(); err != nil {
		xl.Infof("invalid applicant form, error %v", err)
		c.JSON(http.StatusUnprocessableEntity, model.DetailResponse{Detail: err.Error()})
		return
	}

	result, err := h.Intake.SubmitForm(c.Request.Context(), xl, &args)
	if err != nil {
		xl.Errorf("failed to submit applicant %s %s, error %v", args.FirstName, args.LastName, err)
		c.JSON(http.StatusInternalServerError, model.DetailResponse{Detail: fmt.Sprintf("Upload failed: %v", err)})
		return
	}
	c.JSON(http.StatusOK, result.Message)
}

// List GET /applicants
func (h *ApplicantApiHandler) List(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	applicants, err := h.Applicants.ListAll(xl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.DetailResponse{Detail: fmt.Sprintf("Failed to fetch applicants: %v", err)})
		return
	}
	c.JSON(http.StatusOK, model.ApplicantListResponse{Applicants: applicants})
}

// Get GET /applicant/:interview_code
func (h *ApplicantApiHandler) Get(c *gin.Context) {
	xl := c.MustGet(model.XLogKey).(*xlog.Logger)
	interviewCode := c.Param("interview_code")
	applicant, err := h.Applicants.FindByCode(xl, interviewCode)
	if err != nil {
		switch err {
		case errors2.ErrApplicantNotFound:
			c.JSON(http.StatusNotFound, model.DetailResponse{Detail: "Applicant not found"})
		default:
			c.JSON(http.StatusInternalServerError, model.DetailResponse{Detail: fmt.Sprintf("Failed to fetch applicant: %v", err)})
		}
		return
	}
	c.JSON(http.StatusOK, model.ApplicantResponse{Applicant: applicant})
}
