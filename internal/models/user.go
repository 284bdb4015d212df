package models

import "time"

// UserModel represents a platform account (learner or course author).
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Email         string     `json:"email"    gorm:"index"`
	Avatar        string     `json:"avatar"`
	Password      string     `json:"-"        gorm:"not null"`
	IsTeacher     bool       `json:"is_teacher"`
	LastLoginTime *time.Time `json:"last_login_time"`
}

func (UserModel) TableName() string { return "users" }
