// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

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

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Open(ctx context.Context, owner, holderName, role string) (domain.Account, error)
	GetByOwner(ctx context.Context, owner string) (domain.Account, error)
	GetByNumber(ctx context.Context, number string) (domain.Account, error)
	List(ctx context.Context, pageSize, pageID int32) ([]domain.Account, error)
	SetBalance(ctx context.Context, balance, number string) (domain.Account, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type data struct {
	Account domain.Account `json:"account"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Get handles http request to get the caller's own account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	acc, err := h.service.GetByOwner(ctx, authPayload.Username)
	if err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{acc},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	PageID   int32 `form:"page_id" binding:"required,min=1"`
	PageSize int32 `form:"page_size" binding:"required,min=1,max=100"`
}

type dataAccounts struct {
	Accounts []domain.Account `json:"accounts"`
}

type responseAccounts struct {
	Data dataAccounts `json:"data,omitempty"`
}

// List handles http request to list all accounts. Admin only.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	accounts, err := h.service.List(ctx, req.PageSize, req.PageID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseAccounts{
		Data: dataAccounts{accounts},
	}

	gctx.JSON(http.StatusOK, res)
}

type setBalanceURI struct {
	AccountNumber string `uri:"number" binding:"required,accnumber"`
}

type setBalanceRequest struct {
	Balance string `json:"balance" binding:"required"`
}

// SetBalance handles http request to override an account balance. Admin only.
func (h *Handler) SetBalance(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri setBalanceURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req setBalanceRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	acc, err := h.service.SetBalance(ctx, req.Balance, uri.AccountNumber)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrAccountNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{acc},
	}

	gctx.JSON(http.StatusOK, res)
}
