package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 固定计分规则：答对 +4，答错 -1，未作答不扣分
const (
	MarksCorrect = 4
	MarksWrong   = 1
)

type SubjectTally struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Wrong   int `json:"wrong"`
}

type SubjectBreakdown map[string]SubjectTally

// TestResult 一次提交的评分结果，创建后不可修改。
// 试卷标题、考试类型、学科为提交时的快照。
type TestResult struct {
	ID             string                              `gorm:"primaryKey;type:varchar(40)" json:"result_id"`
	StudentID      string                              `gorm:"type:varchar(40);not null;index:idx_results_student_created,priority:1" json:"student_id"`
	PaperID        string                              `gorm:"type:varchar(40);not null" json:"paper_id"`
	PaperTitle     string                              `gorm:"size:255" json:"paper_title"`
	ExamType       string                              `gorm:"size:100" json:"exam_type"`
	Subject        string                              `gorm:"size:100" json:"subject"`
	TotalQuestions int                                 `json:"total_questions"`
	CorrectAnswers int                                 `json:"correct_answers"`
	WrongAnswers   int                                 `json:"wrong_answers"`
	Unattempted    int                                 `json:"unattempted"`
	Score          int                                 `json:"score"`
	Accuracy       float64                             `json:"accuracy"`
	TimeTaken      int                                 `json:"time_taken"`
	SubjectWise    datatypes.JSONType[SubjectBreakdown] `gorm:"type:json" json:"subject_wise"`
	CreatedAt      time.Time                           `gorm:"index:idx_results_student_created,priority:2" json:"created_at"`
}

func (TestResult) TableName() string {
	return "test_results"
}

func (r *TestResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewID("result")
	}
	return nil
}

// Breakdown 返回按学科的统计，结果为空时返回空 map
func (r *TestResult) Breakdown() SubjectBreakdown {
	b := r.SubjectWise.Data()
	if b == nil {
		return SubjectBreakdown{}
	}
	return b
}
