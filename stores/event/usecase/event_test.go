package usecase

import (
	"errors"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/backoff"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
	mockCurrency "github.com/x-xyz/marketplace/domain/currency/mocks"
	"github.com/x-xyz/marketplace/domain/event"
	mockEvent "github.com/x-xyz/marketplace/domain/event/mocks"
	mockRegistry "github.com/x-xyz/marketplace/domain/registry/mocks"
)

var (
	mockCtx = ctx.Background()
	source  = domain.Address("0x00000000000000000000000000000000000000AA")
	fixedAt = time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)
)

type testsuite struct {
	suite.Suite
	handler *mockEvent.Handler
	subject event.UseCase
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.handler = &mockEvent.Handler{}
	t.subject = New(&EventUseCaseCfg{
		Handlers: []event.Handler{t.handler},
		Workers:  2,
		Clock:    func() time.Time { return fixedAt },
	})
}

func (t *testsuite) TestEmitJournalsAndDispatches() {
	var handled int32
	t.handler.On("Handle", mock.Anything, mock.AnythingOfType("*event.Event")).Return(nil).Run(func(args mock.Arguments) {
		atomic.AddInt32(&handled, 1)
	})

	t.subject.Emit(mockCtx, source, event.TokenAdded, event.TokenPayload{Token: "0x01"})
	t.subject.Emit(mockCtx, source, event.TokenRemoved, event.TokenPayload{Token: "0x01"})

	journal := t.subject.Journal(mockCtx)
	t.Len(journal, 2)
	t.Equal(event.TokenAdded, journal[0].Name)
	t.Equal(event.TokenRemoved, journal[1].Name)
	t.Equal(source.ToLower(), journal[0].Source)
	t.Equal(fixedAt, journal[0].Time)
	t.NotEmpty(journal[0].Id)
	t.NotEqual(journal[0].Id, journal[1].Id)

	t.Eventually(func() bool { return atomic.LoadInt32(&handled) == 2 }, time.Second, 10*time.Millisecond)
}

func (t *testsuite) TestHandlerFailureDoesNotAffectEmit() {
	done := make(chan struct{})
	t.handler.On("Handle", mock.Anything, mock.Anything).Return(errors.New("boom")).Run(func(args mock.Arguments) {
		close(done)
	}).Once()

	t.subject.Emit(mockCtx, source, event.TokenAdded, event.TokenPayload{Token: "0x01"})
	t.Len(t.subject.Journal(mockCtx), 1)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fail("handler not called")
	}
}

func (t *testsuite) TestHandlerPanicIsRecovered() {
	var handled int32
	t.handler.On("Handle", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		panic("handler exploded")
	}).Return(nil).Once()
	t.handler.On("Handle", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		atomic.AddInt32(&handled, 1)
	}).Return(nil).Once()

	t.subject.Emit(mockCtx, source, event.TokenAdded, nil)
	t.subject.Emit(mockCtx, source, event.TokenRemoved, nil)

	t.Eventually(func() bool { return atomic.LoadInt32(&handled) == 1 }, time.Second, 10*time.Millisecond)
}

func (t *testsuite) TestFindAllFromJournal() {
	t.handler.On("Handle", mock.Anything, mock.Anything).Return(nil)

	other := domain.Address("0x00000000000000000000000000000000000000bb")
	t.subject.Emit(mockCtx, source, event.TokenAdded, nil)
	t.subject.Emit(mockCtx, other, event.TokenAdded, nil)
	t.subject.Emit(mockCtx, source, event.TokenRemoved, nil)

	res, err := t.subject.FindAll(mockCtx, event.WithName(event.TokenAdded))
	t.NoError(err)
	t.Len(res, 2)

	res, err = t.subject.FindAll(mockCtx, event.WithSource(source))
	t.NoError(err)
	t.Len(res, 2)
	t.Equal(event.TokenRemoved, res[1].Name)

	res, err = t.subject.FindAll(mockCtx, event.WithPagination(1, 1))
	t.NoError(err)
	t.Len(res, 1)
	t.Equal(other.ToLower(), res[0].Source)

	res, err = t.subject.FindAll(mockCtx, event.WithPagination(5, 1))
	t.NoError(err)
	t.Len(res, 0)
}

func (t *testsuite) TestFindAllFromRepo() {
	repo := &mockEvent.Repo{}
	subject := New(&EventUseCaseCfg{Repo: repo})

	stored := []*event.Event{{Id: "1", Name: event.ItemSold}}
	repo.On("FindAll", mockCtx, mock.Anything).Return(stored, nil).Once()

	res, err := subject.FindAll(mockCtx, event.WithName(event.ItemSold))
	t.NoError(err)
	t.Equal(stored, res)
	repo.AssertExpectations(t.T())
}

func (t *testsuite) TestEmitPersistsToRepo() {
	repo := &mockEvent.Repo{}
	subject := New(&EventUseCaseCfg{Repo: repo})

	done := make(chan *event.Event, 1)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		done <- args.Get(1).(*event.Event)
	}).Once()

	subject.Emit(mockCtx, source, event.ItemListed, nil)

	select {
	case e := <-done:
		t.Equal(event.ItemListed, e.Name)
	case <-time.After(time.Second):
		t.Fail("repo.Insert not called")
	}
	t.Empty(subject.Journal(mockCtx))
}

func (t *testsuite) TestRepoInsertIsRetried() {
	repo := &mockEvent.Repo{}
	subject := New(&EventUseCaseCfg{
		Repo: repo,
		InsertBackoff: func() *backoff.Backoff {
			return backoff.NewLinear(time.Millisecond, 0)
		},
	})

	var attempts int32
	repo.On("Insert", mock.Anything, mock.Anything).Return(errors.New("no primary")).Run(func(args mock.Arguments) {
		atomic.AddInt32(&attempts, 1)
	}).Twice()
	stored := make(chan *event.Event, 1)
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		atomic.AddInt32(&attempts, 1)
		stored <- args.Get(1).(*event.Event)
	}).Once()

	subject.Emit(mockCtx, source, event.ItemSold, nil)

	select {
	case e := <-stored:
		t.Equal(event.ItemSold, e.Name)
	case <-time.After(time.Second):
		t.Fail("event not stored")
	}
	t.Equal(int32(3), atomic.LoadInt32(&attempts))
}

func (t *testsuite) TestJournalKeepsLatest() {
	subject := New(&EventUseCaseCfg{JournalSize: 2})

	subject.Emit(mockCtx, source, event.TokenAdded, nil)
	subject.Emit(mockCtx, source, event.TokenRemoved, nil)
	subject.Emit(mockCtx, source, event.RoyaltySet, nil)

	journal := subject.Journal(mockCtx)
	t.Len(journal, 2)
	t.Equal(event.TokenRemoved, journal[0].Name)
	t.Equal(event.RoyaltySet, journal[1].Name)
}

func (t *testsuite) TestEmitDoesNotWaitForHandlers() {
	release := make(chan struct{})
	var handled int32
	t.handler.On("Handle", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		<-release
		atomic.AddInt32(&handled, 1)
	})

	emitted := make(chan struct{})
	go func() {
		for i := 0; i < 50; i++ {
			t.subject.Emit(mockCtx, source, event.TokenAdded, nil)
		}
		close(emitted)
	}()

	select {
	case <-emitted:
	case <-time.After(time.Second):
		t.Fail("Emit blocked on busy handlers")
	}
	t.Len(t.subject.Journal(mockCtx), 50)

	close(release)
	t.Eventually(func() bool { return atomic.LoadInt32(&handled) == 50 }, 2*time.Second, 10*time.Millisecond)
}

type fakeSender struct {
	channel string
	embeds  []*discordgo.MessageEmbed
	err     error
}

func (f *fakeSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed) (*discordgo.Message, error) {
	f.channel = channelID
	f.embeds = append(f.embeds, embed)
	return &discordgo.Message{}, f.err
}

func (t *testsuite) TestNotifier() {
	reg := &mockRegistry.AddressRegistry{}
	cur := &mockCurrency.Currency{}
	token := domain.Address("0x00000000000000000000000000000000000000cc")
	reg.On("Currency", mockCtx, token).Return(cur, nil)
	cur.On("Decimals").Return(int32(18))
	cur.On("Symbol").Return("WETH")

	sender := &fakeSender{}
	n := NewNotifier(&NotifierCfg{Sender: sender, ChannelId: "sales", Registry: reg})

	// 2 items at 1.5 each
	price, _ := new(big.Int).SetString("1500000000000000000", 10)
	err := n.Handle(mockCtx, &event.Event{
		Name: event.ItemSold,
		Payload: event.ItemSoldPayload{
			Seller:       "0x01",
			Buyer:        "0x02",
			Nft:          "0x03",
			TokenId:      "7",
			Quantity:     2,
			PayToken:     token,
			UnitPrice:    big.NewInt(0),
			PricePerItem: price,
		},
	})
	t.NoError(err)
	t.Equal("sales", sender.channel)
	t.Len(sender.embeds, 1)
	t.Equal("Item sold!", sender.embeds[0].Title)
	t.Equal("3 WETH", sender.embeds[0].Fields[3].Value)

	// other events are ignored
	t.NoError(n.Handle(mockCtx, &event.Event{Name: event.ItemListed, Payload: event.ItemListedPayload{}}))
	t.Len(sender.embeds, 1)

	sender.err = errors.New("rate limited")
	err = n.Handle(mockCtx, &event.Event{
		Name:    event.ItemSold,
		Payload: event.BundleSoldPayload{BundleId: "b", PayToken: token, Price: price},
	})
	t.Error(err)
	t.Equal("1.5 WETH", sender.embeds[1].Fields[2].Value)
}
