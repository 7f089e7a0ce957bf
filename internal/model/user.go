package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	Student UserRole = "student"
	Teacher UserRole = "teacher"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	ID         string    `gorm:"primaryKey;type:varchar(40)" json:"user_id"`
	Email      string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Role       UserRole  `gorm:"type:enum('student','teacher','admin');not null" json:"role"`
	Password   *string   `gorm:"size:100" json:"-"` // 外部会话登录的账号没有密码
	IsApproved bool      `gorm:"not null" json:"is_approved"`
	Picture    *string   `gorm:"size:512" json:"picture"`
	CreatedAt  time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID("user")
	}
	return nil
}

// ApprovedOnCreate 教师注册后需要管理员审核，学生和管理员直接通过
func ApprovedOnCreate(role UserRole) bool {
	return role != Teacher
}

func (r UserRole) Valid() bool {
	switch r {
	case Student, Teacher, Admin:
		return true
	}
	return false
}

// Session 外部会话登录产生的会话记录，每个用户最多一条
type Session struct {
	UserID       string    `gorm:"primaryKey;type:varchar(40)" json:"user_id"`
	SessionToken string    `gorm:"size:255;uniqueIndex;not null" json:"session_token"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "user_sessions"
}

func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt.Before(now)
}
