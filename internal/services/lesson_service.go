package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
)

// LessonService handles lessons-learned notes
type LessonService struct {
	lessonRepo repository.LessonRepository
	audit      *AuditService
}

// NewLessonService creates a new lesson service
func NewLessonService(lessonRepo repository.LessonRepository, audit *AuditService) *LessonService {
	return &LessonService{lessonRepo: lessonRepo, audit: audit}
}

// GetByID returns a lesson
func (s *LessonService) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	lesson, err := s.lessonRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return lesson, nil
}

// ListByContract returns the lessons of a contract, optionally filtered
// by tipo
func (s *LessonService) ListByContract(ctx context.Context, contractID uint, tipo string) ([]models.Lesson, error) {
	if tipo != "" && !models.ValidLessonTipo(tipo) {
		return nil, fmt.Errorf("%w: tipo deve ser DIFICULDADE ou APRENDIZADO", ErrValidation)
	}
	return s.lessonRepo.FindByContract(ctx, contractID, tipo)
}

// Create validates and persists a new lesson
func (s *LessonService) Create(ctx context.Context, lesson *models.Lesson, meta AuditEntry) (*models.Lesson, error) {
	if err := validateLesson(lesson); err != nil {
		return nil, err
	}

	lesson.AuthorID = meta.UserID

	if err := s.lessonRepo.Create(ctx, lesson); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "Lesson"
	meta.EntityID = lesson.ID
	meta.ContractID = &lesson.ContractID
	meta.Changes = lesson
	s.audit.Record(meta)

	return s.GetByID(ctx, lesson.ID)
}

// Update validates and persists changes to a lesson
func (s *LessonService) Update(ctx context.Context, id uint, in *models.Lesson, meta AuditEntry) (*models.Lesson, error) {
	lesson, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	in.ID = lesson.ID
	in.ContractID = lesson.ContractID
	in.AuthorID = lesson.AuthorID
	in.CreatedAt = lesson.CreatedAt

	if err := validateLesson(in); err != nil {
		return nil, err
	}

	if err := s.lessonRepo.Update(ctx, in); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "Lesson"
	meta.EntityID = in.ID
	meta.ContractID = &in.ContractID
	meta.Changes = in
	s.audit.Record(meta)

	return s.GetByID(ctx, id)
}

// Delete removes a lesson
func (s *LessonService) Delete(ctx context.Context, id uint, meta AuditEntry) error {
	lesson, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.lessonRepo.Delete(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "Lesson"
	meta.EntityID = id
	meta.ContractID = &lesson.ContractID
	s.audit.Record(meta)

	return nil
}

func validateLesson(lesson *models.Lesson) error {
	if !models.ValidLessonTipo(lesson.Tipo) {
		return fmt.Errorf("%w: tipo deve ser DIFICULDADE ou APRENDIZADO", ErrValidation)
	}
	if strings.TrimSpace(lesson.Titulo) == "" {
		return fmt.Errorf("%w: título é obrigatório", ErrValidation)
	}
	if strings.TrimSpace(lesson.Descricao) == "" {
		return fmt.Errorf("%w: descrição é obrigatória", ErrValidation)
	}
	return nil
}
