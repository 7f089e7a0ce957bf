package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	DoubtPending  = "pending"
	DoubtAnswered = "answered"
)

// Doubt 学生提出的答疑请求
type Doubt struct {
	ID            string     `gorm:"primaryKey;type:varchar(40)" json:"doubt_id"`
	StudentID     string     `gorm:"type:varchar(40);index;not null" json:"student_id"`
	StudentName   string     `gorm:"size:100" json:"student_name"`
	Subject       string     `gorm:"size:100;not null" json:"subject"`
	QuestionText  string     `gorm:"type:text;not null" json:"question_text"`
	QuestionImage *string    `gorm:"type:text" json:"question_image"`
	Status        string     `gorm:"size:20;index;not null" json:"status"`
	AnswerText    *string    `gorm:"type:text" json:"answer_text"`
	AnswerImage   *string    `gorm:"type:text" json:"answer_image"`
	AnsweredBy    *string    `gorm:"type:varchar(40)" json:"answered_by"`
	CreatedAt     time.Time  `json:"created_at"`
	AnsweredAt    *time.Time `json:"answered_at"`
}

func (Doubt) TableName() string {
	return "doubts"
}

func (d *Doubt) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = NewID("doubt")
	}
	return nil
}
