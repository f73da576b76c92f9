package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
	"github.com/viaplan/viaplan-api/internal/models"
)

// NonConformityFSM wraps a non-conformity with its state machine
type NonConformityFSM struct {
	nc  *models.NonConformity
	fsm *fsm.FSM
}

// NewNonConformityFSM creates a new non-conformity state machine
func NewNonConformityFSM(nc *models.NonConformity) *NonConformityFSM {
	ncfsm := &NonConformityFSM{
		nc: nc,
	}

	ncfsm.fsm = fsm.NewFSM(
		nc.Status,
		fsm.Events{
			// ABERTA → EM_ANALISE
			{Name: "analyze", Src: []string{models.NCStatusAberta}, Dst: models.NCStatusEmAnalise},

			// EM_ANALISE → RESOLVIDA
			{Name: "resolve", Src: []string{models.NCStatusEmAnalise}, Dst: models.NCStatusResolvida},

			// ABERTA/EM_ANALISE → CANCELADA
			{Name: "cancel", Src: []string{models.NCStatusAberta, models.NCStatusEmAnalise}, Dst: models.NCStatusCancelada},
		},
		fsm.Callbacks{},
	)

	return ncfsm
}

// Analyze transitions a non-conformity to EM_ANALISE
func (n *NonConformityFSM) Analyze(ctx context.Context) error {
	if !n.nc.MayAnalyze() {
		return fmt.Errorf("não conformidade não pode entrar em análise no status atual: %s", n.nc.Status)
	}

	if err := n.fsm.Event(ctx, "analyze"); err != nil {
		return fmt.Errorf("failed to analyze non-conformity: %w", err)
	}

	n.nc.Status = n.fsm.Current()
	return nil
}

// Resolve transitions a non-conformity to RESOLVIDA
func (n *NonConformityFSM) Resolve(ctx context.Context) error {
	if !n.nc.MayResolve() {
		return fmt.Errorf("não conformidade não pode ser resolvida no status atual: %s", n.nc.Status)
	}

	if err := n.fsm.Event(ctx, "resolve"); err != nil {
		return fmt.Errorf("failed to resolve non-conformity: %w", err)
	}

	n.nc.Status = n.fsm.Current()
	return nil
}

// Cancel transitions a non-conformity to CANCELADA
func (n *NonConformityFSM) Cancel(ctx context.Context) error {
	if !n.nc.MayCancel() {
		return fmt.Errorf("não conformidade não pode ser cancelada no status atual: %s", n.nc.Status)
	}

	if err := n.fsm.Event(ctx, "cancel"); err != nil {
		return fmt.Errorf("failed to cancel non-conformity: %w", err)
	}

	n.nc.Status = n.fsm.Current()
	return nil
}

// Current returns the current state
func (n *NonConformityFSM) Current() string {
	return n.fsm.Current()
}

// Can checks if a transition is possible
func (n *NonConformityFSM) Can(event string) bool {
	return n.fsm.Can(event)
}
