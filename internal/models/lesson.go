package models

import (
	"time"
)

// Lesson is a lessons-learned note attached to a contract
type Lesson struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;index" json:"contract_id"`
	Tipo       string    `gorm:"not null;index" json:"tipo"` // DIFICULDADE or APRENDIZADO
	Titulo     string    `gorm:"not null" json:"titulo"`
	Descricao  string    `gorm:"type:text;not null" json:"descricao"`
	AuthorID   uint      `gorm:"index" json:"author_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Associations
	Author User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// TableName specifies the table name for Lesson
func (Lesson) TableName() string {
	return "lessons"
}

// Lesson tipo constants
const (
	LessonTipoDificuldade = "DIFICULDADE"
	LessonTipoAprendizado = "APRENDIZADO"
)

// ValidLessonTipo reports whether t is an accepted lesson type
func ValidLessonTipo(t string) bool {
	return t == LessonTipoDificuldade || t == LessonTipoAprendizado
}

// LessonResponse is the JSON response format for lessons
type LessonResponse struct {
	ID         uint      `json:"id"`
	ContractID uint      `json:"contract_id"`
	Tipo       string    `json:"tipo"`
	Titulo     string    `json:"titulo"`
	Descricao  string    `json:"descricao"`
	AuthorID   uint      `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ToResponse converts Lesson to LessonResponse
func (l *Lesson) ToResponse() LessonResponse {
	return LessonResponse{
		ID:         l.ID,
		ContractID: l.ContractID,
		Tipo:       l.Tipo,
		Titulo:     l.Titulo,
		Descricao:  l.Descricao,
		AuthorID:   l.AuthorID,
		AuthorName: l.Author.FullName,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
