package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/x-xyz/marketplace/base/delivery"
	bValidator "github.com/x-xyz/marketplace/base/validator"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/mocks"
	"github.com/x-xyz/marketplace/middleware"
	authMiddleware "github.com/x-xyz/marketplace/stores/auth/delivery/http/middleware"
	"github.com/x-xyz/marketplace/stores/internal/testenv"
)

var (
	alice = domain.Address("0x000000000000000000000000000000000000a11c")
	weth  = "/currencies/" + string(testenv.WETH)
)

type testsuite struct {
	suite.Suite
	e    *echo.Echo
	env  *testenv.Env
	auth *mocks.AuthUsecase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.env = testenv.New()
	t.e = echo.New()
	t.e.Validator = bValidator.NewCustomValidator(validator.New())
	t.e.Use(middleware.InitMiddleware().AddContext())
	t.auth = &mocks.AuthUsecase{}
	t.auth.On("ParseToken", mock.Anything, "admin-token").Return(string(testenv.Admin), nil).Maybe()
	t.auth.On("ParseToken", mock.Anything, "alice-token").Return(string(alice), nil).Maybe()
	t.auth.On("IsAdmin", mock.Anything, testenv.Admin).Return(true).Maybe()
	t.auth.On("IsAdmin", mock.Anything, alice).Return(false).Maybe()
	New(t.e, t.env.Registry, authMiddleware.New(t.auth))
}

func (t *testsuite) do(method, path, token, body string) (*httptest.ResponseRecorder, delivery.JsonResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if len(token) > 0 {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	t.e.ServeHTTP(rec, req)

	res := delivery.JsonResponse{}
	t.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &res))
	return rec, res
}

func (t *testsuite) TestGet() {
	rec, res := t.do(http.MethodGet, weth, "", "")
	t.Equal(http.StatusOK, rec.Code)
	info := res.Data.(map[string]interface{})
	t.Equal("WETH", info["symbol"])
	t.Equal(float64(18), info["decimals"])
}

func (t *testsuite) TestNotACurrency() {
	rec, res := t.do(http.MethodGet, "/currencies/"+string(testenv.Single), "", "")
	t.Equal(http.StatusFailedDependency, rec.Code)
	t.Equal(domain.KindDependencyUnresolved, res.Kind)
}

func (t *testsuite) TestMintAndTransfer() {
	rec, _ := t.do(http.MethodPost, weth+"/mint", "admin-token", `{"address":"`+string(alice)+`","amount":"1000"}`)
	t.Require().Equal(http.StatusCreated, rec.Code)

	rec, _ = t.do(http.MethodPost, weth+"/transfer", "alice-token", `{"address":"`+string(testenv.Treasury)+`","amount":"400"}`)
	t.Equal(http.StatusOK, rec.Code)

	_, res := t.do(http.MethodGet, weth+"/balance/"+string(alice), "", "")
	t.Equal("600", res.Data)
	_, res = t.do(http.MethodGet, weth+"/balance/"+string(testenv.Treasury), "", "")
	t.Equal("400", res.Data)

	rec, res = t.do(http.MethodPost, weth+"/transfer", "alice-token", `{"address":"`+string(testenv.Treasury)+`","amount":"601"}`)
	t.Equal(http.StatusPaymentRequired, rec.Code)
	t.Equal(domain.KindInsufficientFunds, res.Kind)
}

func (t *testsuite) TestMintAdminOnly() {
	rec, res := t.do(http.MethodPost, weth+"/mint", "alice-token", `{"address":"`+string(alice)+`","amount":"1000"}`)
	t.Equal(http.StatusForbidden, rec.Code)
	t.Equal(domain.KindUnauthorized, res.Kind)
	t.Equal(int64(0), t.env.Balance(alice))
}

func (t *testsuite) TestApprove() {
	rec, _ := t.do(http.MethodPut, weth+"/approve", "alice-token", `{"address":"`+string(testenv.Marketplace)+`","amount":"250"}`)
	t.Equal(http.StatusOK, rec.Code)

	_, res := t.do(http.MethodGet, weth+"/allowance/"+string(alice)+"/"+string(testenv.Marketplace), "", "")
	t.Equal("250", res.Data)

	rec, res = t.do(http.MethodPut, weth+"/approve", "alice-token", `{"address":"`+string(testenv.Marketplace)+`","amount":"2.5"}`)
	t.Equal(http.StatusBadRequest, rec.Code)
	t.Equal(domain.KindInvalidParameters, res.Kind)
}
