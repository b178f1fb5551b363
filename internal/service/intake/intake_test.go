package intake

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/qiniu/x/xlog"

	"github.com/solutions/interview-prep/internal/common/utils"
	errors2 "github.com/solutions/interview-prep/internal/protodef/errors"
	"github.com/solutions/interview-prep/internal/protodef/model"
)

type fakeUploader struct {
	mu    sync.Mutex
	names []string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, xl *xlog.Logger, content []byte, name string) (string, error) {
	f.mu.Lock()
	f.names = append(f.names, name)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example.com/" + name, nil
}

// memoryStore keeps applicants by interview code and rejects reused codes.
type memoryStore struct {
	mu      sync.Mutex
	byCode  map[string]model.ApplicantDo
	saveErr error
	saves   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{byCode: map[string]model.ApplicantDo{}}
}

func (m *memoryStore) Save(xl *xlog.Logger, applicant *model.ApplicantDo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.byCode[applicant.InterviewCode]; ok {
		return errors2.ErrDuplicateCode
	}
	m.byCode[applicant.InterviewCode] = *applicant
	return nil
}

func (m *memoryStore) FindByCode(xl *xlog.Logger, code string) (*model.ApplicantDo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	applicant, ok := m.byCode[code]
	if !ok {
		return nil, errors2.ErrApplicantNotFound
	}
	return &applicant, nil
}

func (m *memoryStore) ListAll(xl *xlog.Logger) ([]model.ApplicantDo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	applicants := make([]model.ApplicantDo, 0, len(m.byCode))
	for _, a := range m.byCode {
		applicants = append(applicants, a)
	}
	return applicants, nil
}

func intakeConf(persist bool) utils.IntakeConfig {
	return utils.IntakeConfig{PersistOnUploadFailure: persist, CodeAttempts: 3, MaxResumeSize: 1 << 20}
}

func TestSubmitSavesApplicant(t *testing.T) {
	uploader, store := &fakeUploader{}, newMemoryStore()
	s := NewService(uploader, store, intakeConf(true))

	result, err := s.Submit(context.Background(), nil, "victor", "chib", "dev", []byte("resume"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !result.Saved || result.Message != "saved" {
		t.Fatalf("Submit() = %+v", result)
	}
	if uploader.names[0] != "victorchib-RESUME" {
		t.Errorf("upload name = %q", uploader.names[0])
	}
	stored, err := store.FindByCode(nil, result.Applicant.InterviewCode)
	if err != nil {
		t.Fatalf("FindByCode() error = %v", err)
	}
	if stored.ResumeURL != "https://cdn.example.com/victorchib-RESUME" || stored.Role != "dev" {
		t.Errorf("stored applicant = %+v", stored)
	}
	if len(stored.InterviewCode) != utils.InterviewCodeLength {
		t.Errorf("interview code %q has wrong length", stored.InterviewCode)
	}
}

// An upload failure still reaches the store, with an empty resume url.
func TestSubmitPersistsOnUploadFailure(t *testing.T) {
	uploader, store := &fakeUploader{err: errors.New("Upload failed")}, newMemoryStore()
	s := NewService(uploader, store, intakeConf(true))

	result, err := s.Submit(context.Background(), nil, "victor", "chib", "dev", []byte("resume"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if store.saves != 1 {
		t.Fatalf("store saved %d times, want 1", store.saves)
	}
	if !result.Saved || result.Applicant.ResumeURL != "" {
		t.Errorf("Submit() = %+v, want saved without resume url", result)
	}
}

func TestSubmitRejectsOnUploadFailure(t *testing.T) {
	uploadErr := errors.New("Upload failed")
	uploader, store := &fakeUploader{err: uploadErr}, newMemoryStore()
	s := NewService(uploader, store, intakeConf(false))

	result, err := s.Submit(context.Background(), nil, "victor", "chib", "dev", []byte("resume"))
	if err != uploadErr || result != nil {
		t.Errorf("Submit() = %+v, %v, want upload error", result, err)
	}
	if store.saves != 0 {
		t.Errorf("store saved %d times, want 0", store.saves)
	}
}

func TestSubmitReportsSaveFailureAsResult(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("no reachable servers")
	s := NewService(&fakeUploader{}, store, intakeConf(true))

	result, err := s.Submit(context.Background(), nil, "victor", "chib", "dev", []byte("resume"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Saved || result.Message != "Error saving applicant data: no reachable servers" {
		t.Errorf("Submit() = %+v", result)
	}
}

func TestSubmitRetriesDuplicateCode(t *testing.T) {
	store := newMemoryStore()
	store.byCode["TAKENCODE000000"] = model.ApplicantDo{InterviewCode: "TAKENCODE000000"}
	s := NewService(&fakeUploader{}, store, intakeConf(true))
	codes := []string{"TAKENCODE000000", "TAKENCODE000000", "FRESHCODE000000"}
	s.newCode = func() string {
		code := codes[0]
		codes = codes[1:]
		return code
	}

	result, err := s.Submit(context.Background(), nil, "ada", "lovelace", "dev", []byte("resume"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if !result.Saved || result.Applicant.InterviewCode != "FRESHCODE000000" {
		t.Errorf("Submit() = %+v, want saved under the third code", result)
	}
	if store.saves != 3 {
		t.Errorf("store saved %d times, want 3", store.saves)
	}
}

func TestSubmitGivesUpAfterCodeAttempts(t *testing.T) {
	store := newMemoryStore()
	store.byCode["TAKENCODE000000"] = model.ApplicantDo{}
	s := NewService(&fakeUploader{}, store, intakeConf(true))
	s.newCode = func() string { return "TAKENCODE000000" }

	result, err := s.Submit(context.Background(), nil, "ada", "lovelace", "dev", []byte("resume"))
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if result.Saved || result.Message != "Error saving applicant data: interview code already used" {
		t.Errorf("Submit() = %+v, want unsaved with a plain message", result)
	}
	if store.saves != 3 {
		t.Errorf("store saved %d times, want 3", store.saves)
	}
}

func TestSubmitConcurrent(t *testing.T) {
	uploader, store := &fakeUploader{}, newMemoryStore()
	s := NewService(uploader, store, intakeConf(true))

	const n = 20
	codes := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := s.Submit(context.Background(), nil, fmt.Sprintf("first%d", i), "last", "dev", []byte("resume"))
			if err != nil || !result.Saved {
				t.Errorf("Submit(%d) = %+v, %v", i, result, err)
				return
			}
			codes[i] = result.Applicant.InterviewCode
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		stored, err := store.FindByCode(nil, code)
		if err != nil {
			t.Errorf("applicant %d not retrievable: %v", i, err)
			continue
		}
		if want := fmt.Sprintf("first%d", i); stored.FirstName != want {
			t.Errorf("applicant %d first name = %q, want %q", i, stored.FirstName, want)
		}
		if want := fmt.Sprintf("https://cdn.example.com/first%dlast-RESUME", i); stored.ResumeURL != want {
			t.Errorf("applicant %d resume url = %q, want %q", i, stored.ResumeURL, want)
		}
	}
}
