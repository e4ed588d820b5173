package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Action is the closed set of till requests. Dispatch with a type switch.
type Action interface {
	isAction()
}

type StatusAction struct{}

type CustomerBalanceAction struct {
	Customer string
}

type PostAction struct {
	Kind     Kind
	Amount   decimal.Decimal
	Note     string
	Customer string
}

type CutAction struct{}

type UndoAction struct {
	Entry string
}

func (StatusAction) isAction()          {}
func (CustomerBalanceAction) isAction() {}
func (PostAction) isAction()            {}
func (CutAction) isAction()             {}
func (UndoAction) isAction()            {}

type ActionRequest struct {
	Action   string
	Amount   decimal.Decimal
	Note     string
	Customer string
	Entry    string
}

func ParseAction(req ActionRequest) (Action, error) {
	customer := strings.TrimSpace(req.Customer)

	switch req.Action {
	case "status":
		return StatusAction{}, nil
	case "saldo_cliente":
		if customer == "" {
			return nil, ErrMissingCustomer
		}
		return CustomerBalanceAction{Customer: customer}, nil
	case "corte":
		return CutAction{}, nil
	case "deshacer":
		return UndoAction{Entry: req.Entry}, nil
	}

	for kind, name := range kindNames {
		if name == req.Action {
			return PostAction{
				Kind:     kind,
				Amount:   req.Amount,
				Note:     strings.TrimSpace(req.Note),
				Customer: customer,
			}, nil
		}
	}

	return nil, ErrUnknownAction
}
