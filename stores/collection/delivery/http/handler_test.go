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
	rec, res := t.do(http.MethodGet, "/collections/"+string(testenv.Single), "", "")
	t.Equal(http.StatusOK, rec.Code)

	info := res.Data.(map[string]interface{})
	t.Equal(string(testenv.Single), info["address"])
	t.Equal(string(testenv.Admin), info["owner"])
	t.Equal("Single", info["name"])
	t.Equal("0", info["mintFee"])
}

func (t *testsuite) TestGetUnknownCollection() {
	rec, res := t.do(http.MethodGet, "/collections/0x00000000000000000000000000000000000000ff", "", "")
	t.Equal(http.StatusFailedDependency, rec.Code)
	t.Equal(domain.KindDependencyUnresolved, res.Kind)

	rec, res = t.do(http.MethodGet, "/collections/not-an-address", "", "")
	t.Equal(http.StatusBadRequest, rec.Code)
	t.Equal(domain.KindInvalidParameters, res.Kind)
}

func (t *testsuite) TestMintThenRead() {
	rec, res := t.do(http.MethodPost, "/collections/"+string(testenv.Single)+"/mint", "admin-token",
		`{"to":"`+string(alice)+`","tokenUri":"ipfs://first"}`)
	t.Require().Equal(http.StatusCreated, rec.Code)
	tokenId := res.Data.(string)

	rec, res = t.do(http.MethodGet, "/collections/"+string(testenv.Single)+"/tokens/"+tokenId, "", "")
	t.Equal(http.StatusOK, rec.Code)
	t.Equal("ipfs://first", res.Data.(map[string]interface{})["tokenUri"])

	rec, res = t.do(http.MethodGet, "/collections/"+string(testenv.Single)+"/tokens/"+tokenId+"/balance/"+string(alice), "", "")
	t.Equal(http.StatusOK, rec.Code)
	t.Equal(float64(1), res.Data)
}

func (t *testsuite) TestMintRequiresToken() {
	req := httptest.NewRequest(http.MethodPost, "/collections/"+string(testenv.Single)+"/mint", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	t.e.ServeHTTP(rec, req)
	t.Equal(http.StatusBadRequest, rec.Code)
}

func (t *testsuite) TestMintInvalidParams() {
	rec, res := t.do(http.MethodPost, "/collections/"+string(testenv.Single)+"/mint", "admin-token", `{"to":"0x01"}`)
	t.Equal(http.StatusBadRequest, rec.Code)
	t.Equal(domain.KindInvalidParameters, res.Kind)
}

func (t *testsuite) TestApproval() {
	rec, _ := t.do(http.MethodPut, "/collections/"+string(testenv.Single)+"/approval", "alice-token",
		`{"operator":"`+string(testenv.Treasury)+`","approved":true}`)
	t.Equal(http.StatusOK, rec.Code)

	rec, res := t.do(http.MethodGet, "/collections/"+string(testenv.Single)+"/approval/"+string(alice)+"/"+string(testenv.Treasury), "", "")
	t.Equal(http.StatusOK, rec.Code)
	t.Equal(true, res.Data)
}

func (t *testsuite) TestOwnerOnly() {
	rec, res := t.do(http.MethodPut, "/collections/"+string(testenv.Single)+"/mint-fee", "alice-token", `{"amount":"100"}`)
	t.Equal(http.StatusForbidden, rec.Code)
	t.Equal(domain.KindUnauthorized, res.Kind)

	rec, res = t.do(http.MethodPost, "/collections/"+string(testenv.Single)+"/minters", "alice-token", `{"minter":"`+string(alice)+`"}`)
	t.Equal(http.StatusForbidden, rec.Code)
	t.Equal(domain.KindUnauthorized, res.Kind)
}

func (t *testsuite) TestUpdateMintFee() {
	rec, res := t.do(http.MethodPut, "/collections/"+string(testenv.Single)+"/mint-fee", "admin-token", `{"amount":"2500"}`)
	t.Equal(http.StatusOK, rec.Code)
	t.Equal("2500", res.Data)

	rec, res = t.do(http.MethodPut, "/collections/"+string(testenv.Single)+"/mint-fee", "admin-token", `{"amount":"-1"}`)
	t.Equal(http.StatusBadRequest, rec.Code)
	t.Equal(domain.KindInvalidParameters, res.Kind)
}
