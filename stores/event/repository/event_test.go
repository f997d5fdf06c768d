package repository

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	"github.com/x-xyz/marketplace/domain/event"
	"github.com/x-xyz/marketplace/service/query"
	mockQuery "github.com/x-xyz/marketplace/service/query/mocks"
)

var (
	mockCtx = ctx.Background()
	source  = domain.Address("0x00000000000000000000000000000000000000AA")
	at      = time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
)

type testsuite struct {
	suite.Suite
	mgo     *mockQuery.Mongo
	subject event.Repo
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.mgo = &mockQuery.Mongo{}
	t.subject = New(t.mgo)
}

func (t *testsuite) TearDownTest() {
	t.mgo.AssertExpectations(t.T())
}

func (t *testsuite) TestInsertKeepsAmountsAsStrings() {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	e := &event.Event{
		Id:     "ev-1",
		Name:   event.ItemSold,
		Source: source,
		Time:   at,
		Payload: event.ItemSoldPayload{
			Nft:          "0x01",
			TokenId:      "7",
			Quantity:     2,
			UnitPrice:    huge,
			PricePerItem: huge,
		},
	}

	var stored *eventDoc
	t.mgo.On("Insert", mockCtx, domain.TableEvents, mock.AnythingOfType("*repository.eventDoc")).Return(nil).Run(func(args mock.Arguments) {
		stored = args.Get(2).(*eventDoc)
	}).Once()

	t.NoError(t.subject.Insert(mockCtx, e))
	t.Require().NotNil(stored)
	t.Equal(source.ToLower(), stored.Source)
	t.Equal("123456789012345678901234567890", stored.Payload["unitPrice"])
	t.Equal("2", stored.Payload["quantity"])
	t.Equal("7", stored.Payload["tokenId"])
}

func (t *testsuite) TestInsertDuplicateIsIgnored() {
	t.mgo.On("Insert", mockCtx, domain.TableEvents, mock.Anything).Return(query.ErrDuplicateKey).Once()
	t.NoError(t.subject.Insert(mockCtx, &event.Event{Id: "ev-1", Name: event.TokenAdded}))
}

func (t *testsuite) TestInsertFailed() {
	boom := errors.New("boom")
	t.mgo.On("Insert", mockCtx, domain.TableEvents, mock.Anything).Return(boom).Once()
	t.Equal(boom, t.subject.Insert(mockCtx, &event.Event{Id: "ev-1", Name: event.TokenAdded}))
}

func (t *testsuite) TestFindAll() {
	docs := []*eventDoc{
		{Id: "ev-1", Name: event.TokenAdded, Source: source.ToLower(), Time: at, Payload: bson.M{"token": "0x01"}},
	}
	qry := bson.M{"name": event.TokenAdded, "source": source.ToLower()}
	t.mgo.On("Search", mockCtx, domain.TableEvents, 10, 5, "time", qry, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		*args.Get(6).(*[]*eventDoc) = docs
	}).Once()

	res, err := t.subject.FindAll(mockCtx, event.WithName(event.TokenAdded), event.WithSource(source), event.WithPagination(10, 5))
	t.NoError(err)
	t.Require().Len(res, 1)
	t.Equal("ev-1", res[0].Id)
	t.Equal(map[string]interface{}{"token": "0x01"}, res[0].Payload)
}

func (t *testsuite) TestFindAllFailed() {
	t.mgo.On("Search", mockCtx, domain.TableEvents, 0, 0, "time", bson.M{}, mock.Anything).Return(errors.New("boom")).Once()
	res, err := t.subject.FindAll(mockCtx)
	t.Error(err)
	t.Nil(res)
}

func (t *testsuite) TestEnsureIndexes() {
	t.mgo.On("EnsureIndexes", mockCtx, domain.TableEvents, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	t.NoError(EnsureIndexes(mockCtx, t.mgo))
}
