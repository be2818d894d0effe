package accountdelivery

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/internal/middleware"
	"github.com/go-vault/vault-bank/internal/test"
	"github.com/go-vault/vault-bank/pkg/errorspkg"
	"github.com/go-vault/vault-bank/pkg/randompkg"
	"github.com/go-vault/vault-bank/pkg/tokenpkg"
	"github.com/go-vault/vault-bank/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func registerValidators(t *testing.T) {
	t.Helper()

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("accnumber", ValidAccountNumber); err != nil {
			t.Fatalf(`v.RegisterValidation("accnumber", ValidAccountNumber) returned error: %v`, err)
		}
	}
}

func TestGet(t *testing.T) {
	username := randompkg.Owner()
	account := test.RandomAccount(username)
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := time.Minute

	testCases := []struct {
		name           string
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
		checkData      func(data any)
	}{
		{
			name: "OK",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					GetByOwner(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
			checkData: func(data any) {
				got, ok := data.(*struct {
					Account domain.Account `json:"account"`
				})
				if !ok {
					t.Errorf(`res.Data=%v, failed type conversion`, data)
				}

				compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
				if diff := cmp.Diff(account, got.Account, compareCreatedAt); diff != "" {
					t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
				}
			},
		},
		{
			name: "NoAuthorization",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().GetByOwner(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "authorization header is not provided",
		},
		{
			name: "ErrAccountNotFound",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					GetByOwner(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name: "InternalServerError",
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					GetByOwner(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(domain.Account{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			accountHandler := NewHandler(accountService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.GET("/accounts/me", accountHandler.Get)

			tc.buildStubs(accountService)

			req, err := http.NewRequest(http.MethodGet, "/accounts/me", nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Account domain.Account `json:"account"`
				}{},
			}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}
			} else {
				tc.checkData(res.Data)
			}
		})
	}
}

func TestSetBalance(t *testing.T) {
	registerValidators(t)

	username := randompkg.Owner()
	account := test.RandomAccount(username)
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := time.Minute

	type requestBody struct {
		Balance string `json:"balance"`
	}

	testCases := []struct {
		name           string
		uri            string
		requestBody    requestBody
		setupAuth      func(t *testing.T, r *http.Request) error
		buildStubs     func(accountService *MockService)
		wantStatusCode int
		wantError      string
	}{
		{
			name:        "OK",
			uri:         "/admin/accounts/" + account.AccountNumber + "/balance",
			requestBody: requestBody{Balance: "5000"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					SetBalance(gomock.Any(), gomock.Eq("5000"), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(account, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name:        "InvalidAccountNumberURI",
			uri:         "/admin/accounts/123/balance",
			requestBody: requestBody{Balance: "5000"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().SetBalance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:        "ErrInvalidAmount",
			uri:         "/admin/accounts/" + account.AccountNumber + "/balance",
			requestBody: requestBody{Balance: "abc"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					SetBalance(gomock.Any(), gomock.Eq("abc"), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(domain.Account{}, domain.ErrInvalidAmount)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidAmount.Error(),
		},
		{
			name:        "ErrAccountNotFound",
			uri:         "/admin/accounts/" + account.AccountNumber + "/balance",
			requestBody: requestBody{Balance: "5000"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, username, duration)
			},
			buildStubs: func(accountService *MockService) {
				accountService.EXPECT().
					SetBalance(gomock.Any(), gomock.Eq("5000"), gomock.Eq(account.AccountNumber)).
					Times(1).
					Return(domain.Account{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			accountService := NewMockService(ctrl)
			accountHandler := NewHandler(accountService)

			server := gin.New()
			server.Use(middleware.AuthMiddleware(tokenMaker))
			server.PATCH("/admin/accounts/:number/balance", accountHandler.SetBalance)

			tc.buildStubs(accountService)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPatch, tc.uri, bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			if tc.wantError != "" {
				var res web.Response
				if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
					t.Errorf("Decoding response body error: %v", err)
				}

				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}
			}
		})
	}
}

func TestList(t *testing.T) {
	username := randompkg.Owner()
	tokenSymmetricKey := randompkg.String(32)

	tokenMaker, err := tokenpkg.NewPasetoMaker(tokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", tokenSymmetricKey, err)
	}

	accounts := []domain.Account{
		test.RandomAccount(randompkg.Owner()),
		test.RandomAccount(randompkg.Owner()),
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	accountService := NewMockService(ctrl)
	accountHandler := NewHandler(accountService)

	server := gin.New()
	server.Use(middleware.AuthMiddleware(tokenMaker))
	server.GET("/admin/accounts", accountHandler.List)

	accountService.EXPECT().
		List(gomock.Any(), gomock.Eq(int32(10)), gomock.Eq(int32(1))).
		Times(1).
		Return(accounts, nil)

	req, err := http.NewRequest(http.MethodGet, "/admin/accounts?page_id=1&page_size=10", nil)
	if err != nil {
		t.Fatalf("Creating request error: %v", err)
	}

	err = middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer, username, time.Minute)
	if err != nil {
		t.Fatalf("middleware.AddAuthorization returned error: %v", err)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	if got := recorder.Code; got != http.StatusOK {
		t.Errorf("Status code: got %v, want %v", got, http.StatusOK)
	}

	res := web.Response{
		Data: &struct {
			Accounts []domain.Account `json:"accounts"`
		}{},
	}

	if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
		t.Errorf("Decoding response body error: %v", err)
	}

	got, ok := res.Data.(*struct {
		Accounts []domain.Account `json:"accounts"`
	})
	if !ok {
		t.Fatalf(`res.Data=%v, failed type conversion`, res.Data)
	}

	compareCreatedAt := cmpopts.EquateApproxTime(time.Second)
	if diff := cmp.Diff(accounts, got.Accounts, compareCreatedAt); diff != "" {
		t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
	}
}
