package service

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lshigami/Formlet/internal/apperr"
	"github.com/lshigami/Formlet/internal/model"
	"github.com/lshigami/Formlet/internal/repository"
	"github.com/rs/zerolog/log"
)

// ExportService streams a form's responses as CSV: a header of
// User, Email, Timestamp and the question texts, then one row per response,
// newest first, with every field quoted.
type ExportService interface {
	// PrepareExport checks ownership and returns the loaded form plus the
	// attachment filename, so the HTTP layer can set headers before streaming.
	PrepareExport(formID, callerID uint) (*model.Form, string, error)
	WriteCSV(form *model.Form, w io.Writer) error
}

type exportService struct {
	formRepo     repository.FormRepository
	questionRepo repository.QuestionRepository
	responseRepo repository.ResponseRepository
}

func NewExportService(formRepo repository.FormRepository, questionRepo repository.QuestionRepository, responseRepo repository.ResponseRepository) ExportService {
	return &exportService{formRepo: formRepo, questionRepo: questionRepo, responseRepo: responseRepo}
}

func (s *exportService) PrepareExport(formID, callerID uint) (*model.Form, string, error) {
	form, err := s.formRepo.FindByID(formID)
	if err != nil {
		return nil, "", apperr.Newf(apperr.CodeNotFound, "form %d not found", formID)
	}
	if form.CreatedByID != callerID {
		return nil, "", apperr.New(apperr.CodeOwnership, "form belongs to another user")
	}

	title := form.Title
	if len(title) > 20 {
		title = title[:20]
	}
	filename := fmt.Sprintf("formlet-%s-%s.csv", slugify(title), time.Now().Format("2006-01-02-150405"))
	return form, filename, nil
}

func (s *exportService) WriteCSV(form *model.Form, w io.Writer) error {
	questions, err := s.questionRepo.FindByFormID(form.ID)
	if err != nil {
		return fmt.Errorf("load questions for form %d: %w", form.ID, err)
	}

	header := make([]string, 0, 3+len(questions))
	header = append(header, "User", "Email", "Timestamp")
	for _, q := range questions {
		header = append(header, q.Text)
	}
	if err := writeQuotedRow(w, header); err != nil {
		return err
	}

	responses, err := s.responseRepo.FindByFormWithAnswers(form.ID)
	if err != nil {
		return fmt.Errorf("load responses for form %d: %w", form.ID, err)
	}

	flusher, _ := w.(http.Flusher)
	for i := range responses {
		row, err := buildCSVRow(questions, &responses[i])
		if err != nil {
			log.Error().Err(err).Uint("responseID", responses[i].ID).Msg("WriteCSV: failed to build row")
			return err
		}
		if err := writeQuotedRow(w, row); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

func buildCSVRow(questions []model.Question, response *model.Response) ([]string, error) {
	user := "Anonymous"
	email := ""
	if response.User != nil {
		user = response.User.Username
		email = response.User.Email
	}

	answersByQuestion := make(map[uint]model.Answer, len(response.Answers))
	for _, answer := range response.Answers {
		answersByQuestion[answer.QuestionID] = answer
	}

	row := make([]string, 0, 3+len(questions))
	row = append(row, user, email, response.CreatedAt.Format("2006-01-02 15:04:05"))

	for _, question := range questions {
		answer, ok := answersByQuestion[question.ID]
		if !ok {
			row = append(row, "")
			continue
		}
		switch question.Type {
		case model.QuestionShortText, model.QuestionLongText:
			row = append(row, answer.Text)
		case model.QuestionRadio:
			if len(answer.Choices) > 0 {
				row = append(row, answer.Choices[0].Text)
			} else {
				row = append(row, "")
			}
		case model.QuestionCheckbox:
			texts := make([]string, len(answer.Choices))
			for i, choice := range answer.Choices {
				texts[i] = choice.Text
			}
			row = append(row, strings.Join(texts, "; "))
		default:
			return nil, apperr.Newf(apperr.CodeInternal, "question type %s not supported", question.Type)
		}
	}
	return row, nil
}

// writeQuotedRow emits one CSV record with every field quoted, which
// encoding/csv cannot be told to do.
func writeQuotedRow(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	_, err := io.WriteString(w, strings.Join(quoted, ",")+"\r\n")
	return err
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
