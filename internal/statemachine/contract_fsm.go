package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/viaplan/viaplan-api/internal/models"
)

// ContractFSM wraps a contract with its state machine
type ContractFSM struct {
	contract *models.Contract
	fsm      *fsm.FSM
}

// NewContractFSM creates a new contract state machine
func NewContractFSM(contract *models.Contract) *ContractFSM {
	cfsm := &ContractFSM{
		contract: contract,
	}

	cfsm.fsm = fsm.NewFSM(
		contract.Status,
		fsm.Events{
			// RASCUNHO → ATIVO
			{Name: "activate", Src: []string{models.ContractStatusRascunho}, Dst: models.ContractStatusAtivo},

			// ATIVO → ENCERRADO
			{Name: "close", Src: []string{models.ContractStatusAtivo}, Dst: models.ContractStatusEncerrado},

			// RASCUNHO/ATIVO → CANCELADO
			{Name: "cancel", Src: []string{models.ContractStatusRascunho, models.ContractStatusAtivo}, Dst: models.ContractStatusCancelado},
		},
		fsm.Callbacks{},
	)

	return cfsm
}

// Activate transitions contract to ATIVO
func (c *ContractFSM) Activate(ctx context.Context) error {
	if !c.contract.MayActivate() {
		return fmt.Errorf("contrato não pode ser ativado no status atual: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "activate"); err != nil {
		return fmt.Errorf("failed to activate contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Close transitions contract to ENCERRADO
func (c *ContractFSM) Close(ctx context.Context) error {
	if !c.contract.MayClose() {
		return fmt.Errorf("contrato não pode ser encerrado no status atual: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "close"); err != nil {
		return fmt.Errorf("failed to close contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Cancel transitions contract to CANCELADO
func (c *ContractFSM) Cancel(ctx context.Context) error {
	if !c.contract.MayCancel() {
		return fmt.Errorf("contrato não pode ser cancelado no status atual: %s", c.contract.Status)
	}

	if err := c.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel contract: %w", err)
	}

	c.contract.Status = c.fsm.Current()
	return nil
}

// Current returns the current state
func (c *ContractFSM) Current() string {
	return c.fsm.Current()
}

// Can checks if a transition is possible
func (c *ContractFSM) Can(event string) bool {
	return c.fsm.Can(event)
}
