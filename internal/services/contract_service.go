package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/viaplan/viaplan-api/internal/jobs"
	"github.com/viaplan/viaplan-api/internal/models"
	"github.com/viaplan/viaplan-api/internal/repository"
	"github.com/viaplan/viaplan-api/internal/statemachine"
)

// ContractService handles contract operations
type ContractService struct {
	contractRepo repository.ContractRepository
	editorRepo   repository.EditorRepository
	fichaRepo    repository.FichaRepository
	userRepo     repository.UserRepository
	email        *EmailService
	audit        *AuditService
	worker       *jobs.Worker
}

// NewContractService creates a new contract service
func NewContractService(
	contractRepo repository.ContractRepository,
	editorRepo repository.EditorRepository,
	fichaRepo repository.FichaRepository,
	userRepo repository.UserRepository,
	email *EmailService,
	audit *AuditService,
	worker *jobs.Worker,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		editorRepo:   editorRepo,
		fichaRepo:    fichaRepo,
		userRepo:     userRepo,
		email:        email,
		audit:        audit,
		worker:       worker,
	}
}

// CanEdit reports whether a user may mutate a contract. Owners, admins
// and invited editors qualify.
func (s *ContractService) CanEdit(ctx context.Context, contractID, userID uint, isAdmin bool) (bool, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if isAdmin || contract.OwnerID == userID {
		return true, nil
	}
	return s.editorRepo.IsEditor(ctx, contractID, userID)
}

// GetByID returns a contract with all associations loaded
func (s *ContractService) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	contract, err := s.contractRepo.FindByIDWithDetails(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contract, nil
}

// List returns contracts visible to the user, filtered and paginated
func (s *ContractService) List(ctx context.Context, query *repository.ContractQuery) ([]models.Contract, int64, error) {
	return s.contractRepo.List(ctx, query)
}

// Create persists a new contract owned by the calling user
func (s *ContractService) Create(ctx context.Context, contract *models.Contract, meta AuditEntry) (*models.Contract, error) {
	if strings.TrimSpace(contract.Nome) == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}

	contract.Status = models.ContractStatusRascunho
	contract.OwnerID = meta.UserID

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionCreate
	meta.Entity = "Contract"
	meta.EntityID = contract.ID
	meta.ContractID = &contract.ID
	meta.Changes = contract
	s.audit.Record(meta)

	return s.GetByID(ctx, contract.ID)
}

// Update persists changes to a contract's base fields. Participants,
// participations and obras have their own endpoints.
func (s *ContractService) Update(ctx context.Context, id uint, in *models.Contract, meta AuditEntry) (*models.Contract, error) {
	contract, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Nome) == "" {
		return nil, fmt.Errorf("%w: nome é obrigatório", ErrValidation)
	}

	contract.Nome = in.Nome
	contract.Setor = in.Setor
	contract.Objeto = in.Objeto
	contract.Escopo = in.Escopo
	contract.Valor = in.Valor
	contract.DataInicio = in.DataInicio
	contract.DataFim = in.DataFim
	contract.EmpresaID = in.EmpresaID

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "Contract"
	meta.EntityID = contract.ID
	meta.ContractID = &contract.ID
	meta.Changes = in
	s.audit.Record(meta)

	return s.GetByID(ctx, id)
}

// Delete removes a contract and everything under it. Only the owner or
// an admin may delete; editors cannot.
func (s *ContractService) Delete(ctx context.Context, id, userID uint, isAdmin bool, meta AuditEntry) error {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if !isAdmin && contract.OwnerID != userID {
		return ErrForbidden
	}

	if err := s.contractRepo.Delete(ctx, id); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "Contract"
	meta.EntityID = id
	meta.ContractID = &id
	s.audit.Record(meta)

	return nil
}

// Transition applies a status event (activate, close, cancel) through
// the state machine and records the change
func (s *ContractService) Transition(ctx context.Context, id uint, event string, meta AuditEntry) (*models.Contract, error) {
	contract, err := s.contractRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	from := contract.Status
	fsm := statemachine.NewContractFSM(contract)

	switch event {
	case "activate":
		err = fsm.Activate(ctx)
	case "close":
		err = fsm.Close(ctx)
	case "cancel":
		err = fsm.Cancel(ctx)
	default:
		return nil, fmt.Errorf("%w: evento desconhecido: %s", ErrValidation, event)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionStatusChange
	meta.Entity = "Contract"
	meta.EntityID = contract.ID
	meta.ContractID = &contract.ID
	meta.Changes = map[string]string{"from": from, "to": contract.Status}
	s.audit.Record(meta)

	return s.GetByID(ctx, id)
}

// SetParticipants replaces a contract's participant list. Roles must be
// valid; OUTRO requires a custom label, fixed roles must not carry one.
func (s *ContractService) SetParticipants(ctx context.Context, contractID uint, participants []models.ContractParticipant, meta AuditEntry) (*models.Contract, error) {
	if _, err := s.GetByID(ctx, contractID); err != nil {
		return nil, err
	}

	for i := range participants {
		p := &participants[i]
		if !models.ValidParticipantRole(p.Role) {
			return nil, fmt.Errorf("%w: função inválida: %s", ErrValidation, p.Role)
		}
		hasCustom := p.CustomRole != nil && strings.TrimSpace(*p.CustomRole) != ""
		if p.Role == models.ParticipantRoleOutro && !hasCustom {
			return nil, fmt.Errorf("%w: função OUTRO exige descrição", ErrValidation)
		}
		if p.Role != models.ParticipantRoleOutro && hasCustom {
			return nil, fmt.Errorf("%w: descrição de função só se aplica a OUTRO", ErrValidation)
		}
		if _, err := s.fichaRepo.FindByID(ctx, p.FichaID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: ficha %d não encontrada", ErrValidation, p.FichaID)
			}
			return nil, err
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.ContractID = contractID
	}

	if err := s.contractRepo.ReplaceParticipants(ctx, contractID, participants); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "ContractParticipants"
	meta.EntityID = contractID
	meta.ContractID = &contractID
	meta.Changes = participants
	s.audit.Record(meta)

	return s.GetByID(ctx, contractID)
}

// SetParticipations replaces a contract's company participation rows.
// Percentages are stored as given; whether they sum to 100.00 surfaces
// in the participation summary, not as a rejection.
func (s *ContractService) SetParticipations(ctx context.Context, contractID uint, participations []models.CompanyParticipation, meta AuditEntry) (*models.Contract, error) {
	if _, err := s.GetByID(ctx, contractID); err != nil {
		return nil, err
	}

	for i := range participations {
		p := &participations[i]
		if strings.TrimSpace(p.Nome) == "" {
			return nil, fmt.Errorf("%w: participação exige nome da empresa", ErrValidation)
		}
		if p.Percentage < 0 || p.Percentage > 100 {
			return nil, fmt.Errorf("%w: percentual deve estar entre 0 e 100", ErrValidation)
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.ContractID = contractID
	}

	if err := s.contractRepo.ReplaceParticipations(ctx, contractID, participations); err != nil {
		return nil, err
	}

	meta.Action = models.AuditActionUpdate
	meta.Entity = "CompanyParticipations"
	meta.EntityID = contractID
	meta.ContractID = &contractID
	meta.Changes = participations
	s.audit.Record(meta)

	return s.GetByID(ctx, contractID)
}

// ListEditors returns the editors invited to a contract
func (s *ContractService) ListEditors(ctx context.Context, contractID uint) ([]models.ContractEditor, error) {
	if _, err := s.contractRepo.FindByID(ctx, contractID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.editorRepo.FindByContract(ctx, contractID)
}

// AddEditor invites a user, found by e-mail, as an editor of a contract
// and notifies them asynchronously. The owner cannot be added.
func (s *ContractService) AddEditor(ctx context.Context, contractID uint, email string, meta AuditEntry) (*models.ContractEditor, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: usuário não encontrado com este e-mail", ErrValidation)
		}
		return nil, err
	}

	if contract.OwnerID == user.ID {
		return nil, fmt.Errorf("%w: o responsável já tem acesso total", ErrValidation)
	}

	if exists, err := s.editorRepo.IsEditor(ctx, contractID, user.ID); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("%w: usuário já é editor deste contrato", ErrDuplicate)
	}

	editor := &models.ContractEditor{ContractID: contractID, UserID: user.ID}
	if err := s.editorRepo.Create(ctx, editor); err != nil {
		return nil, err
	}
	editor.User = *user

	s.worker.EnqueueAsync(func(ctx context.Context) error {
		return s.email.SendEditorInvite(ctx, user.Email, user.FullName, contract.Nome)
	})

	meta.Action = models.AuditActionCreate
	meta.Entity = "ContractEditor"
	meta.EntityID = editor.ID
	meta.ContractID = &contractID
	meta.Changes = map[string]uint{"user_id": user.ID}
	s.audit.Record(meta)

	return editor, nil
}

// RemoveEditor revokes an editor entry by its id
func (s *ContractService) RemoveEditor(ctx context.Context, contractID, editorID uint, meta AuditEntry) error {
	editors, err := s.editorRepo.FindByContract(ctx, contractID)
	if err != nil {
		return err
	}

	var editor *models.ContractEditor
	for i := range editors {
		if editors[i].ID == editorID {
			editor = &editors[i]
			break
		}
	}
	if editor == nil {
		return ErrNotFound
	}

	if err := s.editorRepo.Delete(ctx, editor.ID); err != nil {
		return err
	}

	meta.Action = models.AuditActionDelete
	meta.Entity = "ContractEditor"
	meta.EntityID = editor.ID
	meta.ContractID = &contractID
	s.audit.Record(meta)

	return nil
}
