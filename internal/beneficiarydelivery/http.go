// Package beneficiarydelivery manages delivery layer of beneficiaries.
package beneficiarydelivery

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

// Service provides service layer interface needed by beneficiary delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package beneficiarydelivery
type Service interface {
	Add(ctx context.Context, owner, accountNumber, name string) (domain.Beneficiary, error)
	List(ctx context.Context, owner string) ([]domain.Beneficiary, error)
	Remove(ctx context.Context, id int64, owner string) error
}

// Handler facilitates beneficiary delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns beneficiary handler.
func NewHandler(bs Service) *Handler {
	return &Handler{service: bs}
}

type addRequest struct {
	AccountNumber string `json:"account_number" binding:"required,accnumber"`
	Name          string `json:"name" binding:"required"`
}

type data struct {
	Beneficiary domain.Beneficiary `json:"beneficiary"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// Add handles http request to save a beneficiary.
func (h *Handler) Add(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req addRequest
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

	beneficiary, err := h.service.Add(ctx, authPayload.Username, req.AccountNumber, req.Name)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrInvalidAccountNumber:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		case domain.ErrBeneficiaryAlreadyExists:
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{beneficiary},
	}

	gctx.JSON(http.StatusOK, res)
}

type dataBeneficiaries struct {
	Beneficiaries []domain.Beneficiary `json:"beneficiaries"`
}

type responseBeneficiaries struct {
	Data dataBeneficiaries `json:"data,omitempty"`
}

// List handles http request to list the caller's beneficiaries.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	beneficiaries, err := h.service.List(ctx, authPayload.Username)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseBeneficiaries{
		Data: dataBeneficiaries{beneficiaries},
	}

	gctx.JSON(http.StatusOK, res)
}

type removeURI struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Remove handles http request to delete a beneficiary.
func (h *Handler) Remove(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri removeURI
	if err := gctx.ShouldBindUri(&uri); err != nil {
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

	if err := h.service.Remove(ctx, uri.ID, authPayload.Username); err != nil {
		l.Info().Err(err).Send()

		if err == domain.ErrBeneficiaryNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{})
}
