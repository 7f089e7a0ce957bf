package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultLanguage = "English"

// Question 试卷中的单选题，QuestionID 只在所属试卷内唯一
type Question struct {
	QuestionID    string            `json:"question_id"`
	QuestionText  string            `json:"question_text"`
	Subject       string            `json:"subject,omitempty"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation,omitempty"`
	Difficulty    string            `json:"difficulty,omitempty"`
}

// SubjectOr 题目未标注学科时沿用试卷学科
func (q Question) SubjectOr(paperSubject string) string {
	if q.Subject == "" {
		return paperSubject
	}
	return q.Subject
}

// swagger:model Paper
type Paper struct {
	ID         string                        `gorm:"primaryKey;type:varchar(40)" json:"paper_id"`
	Title      string                        `gorm:"size:255;not null" json:"title"`
	Subject    string                        `gorm:"size:100;index;not null" json:"subject"`
	ExamType   string                        `gorm:"size:100;index;not null" json:"exam_type"`
	SubType    *string                       `gorm:"size:100" json:"sub_type"`
	ClassLevel *string                       `gorm:"size:50;index" json:"class_level"`
	Year       *string                       `gorm:"size:20;index" json:"year"`
	Language   string                        `gorm:"size:50;not null" json:"language"`
	Questions  datatypes.JSONSlice[Question] `gorm:"type:json" json:"questions"`
	CreatedBy  string                        `gorm:"index;type:varchar(40)" json:"created_by"`
	CreatedAt  time.Time                     `json:"created_at"`
}

func (Paper) TableName() string {
	return "papers"
}

func (p *Paper) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID("paper")
	}
	return nil
}

// PaperFilter 试卷列表筛选条件，空字段不参与过滤
type PaperFilter struct {
	Subject    string
	ExamType   string
	ClassLevel string
	Year       string
}

// GeneratedPaper 外部出题服务生成、等待教师审核发布的草稿
type GeneratedPaper struct {
	ID               string                        `gorm:"primaryKey;type:varchar(40)" json:"gen_paper_id"`
	CreatedBy        string                        `gorm:"index;type:varchar(40);not null" json:"created_by"`
	Title            string                        `gorm:"size:255" json:"title"`
	Subject          string                        `gorm:"size:100" json:"subject"`
	Difficulty       string                        `gorm:"size:50" json:"difficulty"`
	ExamType         string                        `gorm:"size:100" json:"exam_type"`
	SubType          *string                       `gorm:"size:100" json:"sub_type"`
	ClassLevel       *string                       `gorm:"size:50" json:"class_level"`
	Language         string                        `gorm:"size:50" json:"language"`
	Questions        datatypes.JSONSlice[Question] `gorm:"type:json" json:"questions"`
	IsPublished      bool                          `gorm:"not null" json:"is_published"`
	PublishedPaperID *string                       `gorm:"type:varchar(40)" json:"published_paper_id"`
	PublishedAt      *time.Time                    `json:"published_at"`
	CreatedAt        time.Time                     `json:"created_at"`
}

func (GeneratedPaper) TableName() string {
	return "generated_papers"
}

func (g *GeneratedPaper) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = NewID("gen")
	}
	return nil
}
