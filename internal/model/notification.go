package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationDoubtAnswered   NotificationType = "doubt_answered"
	NotificationTeacherApproved NotificationType = "teacher_approved"
	NotificationTeacherRevoked  NotificationType = "teacher_revoked"
)

type Notification struct {
	ID        string           `gorm:"primaryKey;type:varchar(40)" json:"notification_id"`
	UserID    string           `gorm:"type:varchar(40);index;not null" json:"user_id"`
	Message   string           `gorm:"size:500;not null" json:"message"`
	Type      NotificationType `gorm:"size:50;not null" json:"type"`
	IsRead    bool             `gorm:"not null" json:"is_read"`
	RelatedID *string          `gorm:"type:varchar(40)" json:"related_id,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = NewID("notif")
	}
	return nil
}
