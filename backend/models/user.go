package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`
}

// UserLevelState — единственная строка на пользователя с суммой очков.
// Сумма меняется только атомарным инкрементом на стороне базы; уровень и
// титул всегда вычисляются из неё по таблице уровней.
type UserLevelState struct {
	gorm.Model
	UserID      uint `gorm:"uniqueIndex;not null"`
	TotalPoints int  `gorm:"not null;default:0"`
}
