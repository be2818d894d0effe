// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/internal/middleware"
	"github.com/go-vault/vault-bank/pkg/errorspkg"
	"github.com/go-vault/vault-bank/pkg/tokenpkg"
	"github.com/go-vault/vault-bank/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, fromUsername, recipientAccount, recipientName, amount string) (domain.TransferTxResult, error)
	ListTransactions(ctx context.Context, username, direction string, pageSize, pageID int32) ([]domain.Transaction, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type createRequest struct {
	RecipientAccount string `json:"recipient_account" binding:"required,accnumber"`
	RecipientName    string `json:"recipient_name" binding:"required"`
	Amount           string `json:"amount" binding:"required"`
}

type data struct {
	Transfer domain.TransferTxResult `json:"transfer"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Create handles http request to transfer money between two accounts.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	result, err := h.service.Transfer(ctx, authPayload.Username, req.RecipientAccount, req.RecipientName, req.Amount)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case
			domain.ErrInvalidAmount,
			domain.ErrTransferLimitExceeded,
			domain.ErrInvalidAccountNumber,
			domain.ErrSelfTransfer,
			domain.ErrRecipientInactive,
			domain.ErrInsufficientFunds:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		case
			domain.ErrRecipientNotFound,
			domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))

			return
		case errorspkg.ErrUnavailable:
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{result},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	Direction string `form:"direction" binding:"omitempty,oneof=ALL SENT RECEIVED"`
	PageID    int32  `form:"page_id" binding:"required,min=1"`
	PageSize  int32  `form:"page_size" binding:"required,min=1,max=100"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type responseTransactions struct {
	Data dataTransactions `json:"data,omitempty"`
}

// List handles http request to list the caller's transactions.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	transactions, err := h.service.ListTransactions(ctx, authPayload.Username, req.Direction, req.PageSize, req.PageID)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseTransactions{
		Data: dataTransactions{transactions},
	}

	gctx.JSON(http.StatusOK, res)
}
