package log

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type testsuite struct {
	suite.Suite
	logs *observer.ObservedLogs
	prev *zap.SugaredLogger
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) SetupTest() {
	ts.prev = zapSugaredLogger
	core, logs := observer.New(zapcore.DebugLevel)
	SetCore(core)
	ts.logs = logs
}

func (ts *testsuite) TearDownTest() {
	zapSugaredLogger = ts.prev
}

func (ts *testsuite) TestFields() {
	Log().WithField("a", 1).WithFields(Fields{"b": "x"}).Warn("hello")

	ts.Require().Equal(1, ts.logs.Len())
	entry := ts.logs.All()[0]
	ts.Equal(zapcore.WarnLevel, entry.Level)
	ts.Equal("hello", entry.Message)
	ts.Equal(map[string]interface{}{"a": int64(1), "b": "x"}, entry.ContextMap())
}

func (ts *testsuite) TestDerivedLoggersDoNotShareFields() {
	base := Log().WithField("req", "1")
	base.WithField("a", 1).Info("first")
	base.WithField("b", 2).Info("second")

	entries := ts.logs.All()
	ts.Require().Len(entries, 2)
	ts.Equal(map[string]interface{}{"req": "1", "a": int64(1)}, entries[0].ContextMap())
	ts.Equal(map[string]interface{}{"req": "1", "b": int64(2)}, entries[1].ContextMap())
}

func (ts *testsuite) TestPanic() {
	ts.Panics(func() { Log().Panic("boom") })
	ts.Equal(1, ts.logs.FilterMessage("boom").Len())
}

func (ts *testsuite) TestInit() {
	ts.Error(Init("loud", false))
	ts.NoError(Init("error", true))
}
