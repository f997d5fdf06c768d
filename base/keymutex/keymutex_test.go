package keymutex

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/x-xyz/marketplace/base/ctx"
	"github.com/x-xyz/marketplace/domain"
)

var (
	mockCtx = ctx.Background()
)

type testsuite struct {
	suite.Suite
	subject *KeyMutex
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) SetupTest() {
	t.subject = New("test")
}

func (t *testsuite) TestSerialisesSameKey() {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		running int
		maxSeen int
	)

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, unlock, err := t.subject.Lock(mockCtx, "a")
			if !t.NoError(err) {
				return
			}
			defer unlock()

			mu.Lock()
			running++
			if running > maxSeen {
				maxSeen = running
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		}()
	}
	wg.Wait()

	t.Equal(1, maxSeen)
	t.Equal(0, t.subject.Size())
}

func (t *testsuite) TestIndependentKeys() {
	_, unlockA, err := t.subject.Lock(mockCtx, "a")
	t.Require().NoError(err)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		_, unlockB, err := t.subject.Lock(mockCtx, "b")
		if err == nil {
			unlockB()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fail("lock on b blocked by a")
	}
}

func (t *testsuite) TestReentrant() {
	c, unlock, err := t.subject.Lock(mockCtx, "a")
	t.Require().NoError(err)
	defer unlock()

	t.True(t.subject.Held(c, "a"))
	t.False(t.subject.Held(c, "b"))
	t.False(t.subject.Held(mockCtx, "a"))

	inner, release, err := t.subject.Lock(c, "a")
	t.Require().NoError(err)
	release()
	t.True(t.subject.Held(inner, "a"))
	t.Equal(1, t.subject.Size())
}

func (t *testsuite) TestHeldIsPerMutex() {
	c, unlock, err := t.subject.Lock(mockCtx, "a")
	t.Require().NoError(err)
	defer unlock()

	other := New("other")
	t.False(other.Held(c, "a"))
}

func (t *testsuite) TestFreshContextGivesUpAfterWait() {
	subject := New("test", WithWait(50*time.Millisecond))
	_, unlock, err := subject.Lock(mockCtx, "a")
	t.Require().NoError(err)
	defer unlock()

	start := time.Now()
	_, release, err := subject.Lock(ctx.Background(), "a")
	t.ErrorIs(err, domain.ErrEntityNotActive)
	t.Nil(release)
	t.Less(time.Since(start), time.Second)
	t.Equal(1, subject.Size())
}

func (t *testsuite) TestCancelledWhileWaiting() {
	subject := New("test", WithWait(time.Minute))
	_, unlock, err := subject.Lock(mockCtx, "a")
	t.Require().NoError(err)
	defer unlock()

	c, cancel := ctx.WithTimeout(mockCtx, 20*time.Millisecond)
	defer cancel()
	_, _, err = subject.Lock(c, "a")
	t.ErrorIs(err, context.DeadlineExceeded)
}

func (t *testsuite) TestReleasedKeyIsAcquirable() {
	_, unlock, err := t.subject.Lock(mockCtx, "a")
	t.Require().NoError(err)
	unlock()

	_, unlock, err = t.subject.Lock(mockCtx, "a")
	t.Require().NoError(err)
	unlock()
	t.Equal(0, t.subject.Size())
}
