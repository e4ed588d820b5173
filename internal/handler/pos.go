package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/bakery-pos/internal/balance"
	"github.com/josh-kwaku/bakery-pos/internal/domain"
	"github.com/josh-kwaku/bakery-pos/internal/logging"
	"github.com/josh-kwaku/bakery-pos/internal/service/pos"
)

const (
	msgInvalid       = "❌ Acción inválida o datos faltantes"
	msgNothingToUndo = "❌ Sin asiento para revertir"
	msgMalformed     = "❌ Asiento con formato inválido"
	msgUndone        = "↩ Transacción revertida"
)

type posService interface {
	Post(ctx context.Context, a domain.PostAction) (*pos.Posted, error)
	Undo(ctx context.Context, text string) (*pos.Posted, error)
	Status(ctx context.Context) balance.Status
	CustomerBalance(ctx context.Context, key string) string
	DailyCut(ctx context.Context) string
}

type labeler interface {
	Label(k domain.Kind) string
}

type POSHandler struct {
	pos    posService
	labels labeler
}

func NewPOSHandler(svc posService, labels labeler) *POSHandler {
	return &POSHandler{pos: svc, labels: labels}
}

type posRequest struct {
	Action  string          `json:"action"`
	Monto   decimal.Decimal `json:"monto"`
	Nota    string          `json:"nota"`
	Cliente string          `json:"cliente"`
	Asiento string          `json:"asiento"`
}

type posResponse struct {
	OK         bool   `json:"ok"`
	Msg        string `json:"msg"`
	Asiento    string `json:"asiento,omitempty"`
	Saldo      string `json:"saldo,omitempty"`
	Caja       string `json:"caja,omitempty"`
	Inventario string `json:"inventario,omitempty"`
	CxC        string `json:"cxc,omitempty"`
}

// Handle serves the till's single action endpoint. Business failures are
// reported with ok=false and HTTP 200, which is what the till UI expects.
func (h *POSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req posRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Info("invalid pos request body", "error", err)
		RespondJSON(w, http.StatusBadRequest, posResponse{Msg: msgInvalid})
		return
	}

	action, err := domain.ParseAction(domain.ActionRequest{
		Action:   req.Action,
		Amount:   req.Monto,
		Note:     req.Nota,
		Customer: req.Cliente,
		Entry:    req.Asiento,
	})
	if err != nil {
		log.Info("pos action rejected", "action", req.Action, "error", err)
		RespondJSON(w, http.StatusOK, posResponse{Msg: msgInvalid})
		return
	}

	RespondJSON(w, http.StatusOK, h.dispatch(r.Context(), action))
}

func (h *POSHandler) dispatch(ctx context.Context, action domain.Action) posResponse {
	switch a := action.(type) {
	case domain.StatusAction:
		st := h.pos.Status(ctx)
		return posResponse{OK: true, Caja: st.Cash, Inventario: st.Inventory, CxC: st.Receivables}

	case domain.CustomerBalanceAction:
		return posResponse{OK: true, Saldo: h.pos.CustomerBalance(ctx, a.Customer)}

	case domain.PostAction:
		posted, err := h.pos.Post(ctx, a)
		if err != nil {
			return posResponse{Msg: failureMessage(err)}
		}
		return posResponse{OK: true, Msg: h.postedMessage(posted.Entry), Asiento: posted.Text}

	case domain.CutAction:
		return posResponse{OK: true, Msg: h.pos.DailyCut(ctx)}

	case domain.UndoAction:
		posted, err := h.pos.Undo(ctx, a.Entry)
		if err != nil {
			return posResponse{Msg: failureMessage(err)}
		}
		return posResponse{OK: true, Msg: msgUndone, Asiento: posted.Text}

	default:
		return posResponse{Msg: msgInvalid}
	}
}

func (h *POSHandler) postedMessage(e *domain.Entry) string {
	msg := "✅ " + h.labels.Label(e.Kind)
	if e.Customer != nil {
		msg += " " + e.Customer.Name
	}
	return msg + " " + domain.FormatMoney(e.Amount)
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return msgInvalid
	case errors.Is(err, domain.ErrNothingToReverse):
		return msgNothingToUndo
	case errors.Is(err, domain.ErrMalformedEntry):
		return msgMalformed
	default:
		return "❌ Error: " + appErrorFor(err).Message
	}
}
