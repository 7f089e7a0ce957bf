package service

import (
	"bytes"
	"context"
	"edulearn_backend/internal/model"
	"edulearn_backend/internal/util"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuestionInput 请求中的单道题目
type QuestionInput struct {
	QuestionID    string            `json:"question_id"`
	QuestionText  string            `json:"question_text" validate:"required"`
	Subject       string            `json:"subject"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer" validate:"required"`
	Explanation   string            `json:"explanation"`
	Difficulty    string            `json:"difficulty"`
}

// PaperCreateRequest 创建试卷或发布草稿时的请求体
type PaperCreateRequest struct {
	Title      string          `json:"title" validate:"required"`
	Subject    string          `json:"subject" validate:"required"`
	ExamType   string          `json:"exam_type" validate:"required"`
	SubType    *string         `json:"sub_type"`
	ClassLevel *string         `json:"class_level"`
	Year       *string         `json:"year"`
	Language   string          `json:"language"`
	Questions  []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

// Normalize 去除首尾空白并补全缺省的题号
func (r *PaperCreateRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Subject = strings.TrimSpace(r.Subject)
	r.ExamType = strings.TrimSpace(r.ExamType)
	if r.Language == "" {
		r.Language = model.DefaultLanguage
	}
	for i := range r.Questions {
		q := &r.Questions[i]
		q.QuestionID = strings.TrimSpace(q.QuestionID)
		if q.QuestionID == "" {
			q.QuestionID = fmt.Sprintf("q%d", i+1)
		}
	}
}

// Validate 校验必填字段以及题号在卷内唯一
func (r *PaperCreateRequest) Validate() error {
	r.Normalize()
	if err := validateStruct(r); err != nil {
		return err
	}

	seen := make(map[string]int, len(r.Questions))
	for i, q := range r.Questions {
		if j, dup := seen[q.QuestionID]; dup {
			return util.NewValidationError(
				fmt.Sprintf("questions[%d].question_id", i),
				fmt.Sprintf("duplicates questions[%d]", j),
			)
		}
		seen[q.QuestionID] = i
	}
	return nil
}

// DecodePaperCreateRequest 解析请求体；字段类型错误转换为指明该字段的 ValidationError。
// 空请求体按空对象处理，由 Validate 报告缺失的必填字段。
func DecodePaperCreateRequest(body []byte) (*PaperCreateRequest, error) {
	var req PaperCreateRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return &req, nil
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, decodeError(err)
	}
	return &req, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "body"
		}
		return util.NewValidationError(field, "must be "+jsonKind(typeErr.Type))
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return util.NewValidationError("body", "malformed JSON")
	}
	return util.NewValidationError("body", err.Error())
}

func jsonKind(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Ptr:
		return jsonKind(t.Elem())
	}
	return t.String()
}

// ToPaper 转换为持久化模型
func (r *PaperCreateRequest) ToPaper(createdBy string, now time.Time) *model.Paper {
	return &model.Paper{
		ID:         model.NewID("paper"),
		Title:      r.Title,
		Subject:    r.Subject,
		ExamType:   r.ExamType,
		SubType:    r.SubType,
		ClassLevel: r.ClassLevel,
		Year:       r.Year,
		Language:   r.Language,
		Questions:  datatypes.NewJSONSlice(toQuestions(r.Questions)),
		CreatedBy:  createdBy,
		CreatedAt:  now,
	}
}

func toQuestions(inputs []QuestionInput) []model.Question {
	questions := make([]model.Question, 0, len(inputs))
	for _, in := range inputs {
		options := in.Options
		if options == nil {
			options = map[string]string{}
		}
		questions = append(questions, model.Question{
			QuestionID:    in.QuestionID,
			QuestionText:  in.QuestionText,
			Subject:       in.Subject,
			Options:       options,
			CorrectAnswer: in.CorrectAnswer,
			Explanation:   in.Explanation,
			Difficulty:    in.Difficulty,
		})
	}
	return questions
}

type PaperService struct {
	Papers PaperStore
	Now    Clock
}

func NewPaperService(papers PaperStore) *PaperService {
	return &PaperService{Papers: papers, Now: time.Now}
}

func (s *PaperService) List(ctx context.Context, filter model.PaperFilter) ([]model.Paper, error) {
	papers, err := s.Papers.List(ctx, filter, util.MaxPapersPerPage)
	if err != nil {
		return nil, err
	}
	if papers == nil {
		papers = []model.Paper{}
	}
	return papers, nil
}

func (s *PaperService) Get(ctx context.Context, id string) (*model.Paper, error) {
	paper, err := s.Papers.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPaperNotFound
	}
	return paper, err
}

func (s *PaperService) Create(ctx context.Context, actor *model.User, req *PaperCreateRequest) (*model.Paper, error) {
	if err := requireApprovedTeacher(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	paper := req.ToPaper(actor.ID, s.Now())
	if err := s.Papers.Create(ctx, paper); err != nil {
		return nil, err
	}
	return paper, nil
}
