package backoff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testsuite struct {
	suite.Suite
}

func TestBackoff(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (t *testsuite) TestExponentialSchedule() {
	b := NewExponential(time.Millisecond, 4*time.Millisecond)
	t.Equal(time.Millisecond, b.NextDuration)

	want := []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond}
	for _, d := range want {
		t.Require().NoError(b.Wait(context.Background()))
		t.Equal(d, b.NextDuration)
	}

	b.Reset()
	t.Equal(time.Millisecond, b.NextDuration)
	t.Zero(b.LastDuration)
}

func (t *testsuite) TestLinearSchedule() {
	b := NewLinear(time.Millisecond, 0)
	t.Equal(time.Millisecond, b.NextDuration)
	t.Require().NoError(b.Wait(context.Background()))
	t.Equal(2*time.Millisecond, b.NextDuration)
}

func (t *testsuite) TestWaitHonoursContext() {
	b := NewLinear(time.Minute, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	t.ErrorIs(b.Wait(ctx), context.Canceled)
}

func (t *testsuite) TestRetry() {
	b := NewLinear(time.Millisecond, 0)

	calls := 0
	err := b.Retry(context.Background(), 3, func() error {
		calls++
		if calls < 3 {
			return errors.New("unavailable")
		}
		return nil
	})
	t.NoError(err)
	t.Equal(3, calls)

	calls = 0
	fail := errors.New("down")
	err = b.Retry(context.Background(), 2, func() error {
		calls++
		return fail
	})
	t.ErrorIs(err, fail)
	t.Equal(2, calls)
}
