package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"

	"github.com/go-vault/vault-bank/internal/domain"
	"github.com/go-vault/vault-bank/pkg/errorspkg"
	"github.com/go-vault/vault-bank/pkg/randompkg"
	"github.com/go-vault/vault-bank/pkg/tokenpkg"
	"github.com/go-vault/vault-bank/pkg/web"
)

func TestAdminMiddleware(t *testing.T) {
	username := randompkg.Owner()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		t.Fatalf("Creating token maker error: %v", err)
	}

	testCases := []struct {
		name           string
		buildStubs     func(rc *MockRoleChecker)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "OK",
			buildStubs: func(rc *MockRoleChecker) {
				rc.EXPECT().
					IsAdmin(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(true, nil)
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "NotAdmin",
			buildStubs: func(rc *MockRoleChecker) {
				rc.EXPECT().
					IsAdmin(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(false, nil)
			},
			wantStatusCode: http.StatusForbidden,
			wantError:      domain.ErrNotAdmin.Error(),
		},
		{
			name: "RoleCheckError",
			buildStubs: func(rc *MockRoleChecker) {
				rc.EXPECT().
					IsAdmin(gomock.Any(), gomock.Eq(username)).
					Times(1).
					Return(false, errorspkg.ErrInternal)
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

			rc := NewMockRoleChecker(ctrl)
			tc.buildStubs(rc)

			gin.SetMode(gin.ReleaseMode)
			server := gin.New()

			adminPath := "/admin"
			handler := func(ctx *gin.Context) {
				ctx.JSON(http.StatusOK, gin.H{})
			}
			server.GET(adminPath, AuthMiddleware(tokenMaker), AdminMiddleware(rc), handler)

			recorder := httptest.NewRecorder()
			request, err := http.NewRequest(http.MethodGet, adminPath, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err := AddAuthorization(request, tokenMaker, AuthTypeBearer, username, time.Minute); err != nil {
				t.Fatalf("Setting authorization header error: %v", err)
			}

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, tc.wantStatusCode = %v, want equal",
					recorder.Code, tc.wantStatusCode)
			}

			got := web.Response{}
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if got.Error != tc.wantError {
				t.Errorf("got.Error = %v, tc.wantError = %v, want equal", got.Error, tc.wantError)
			}
		})
	}
}
