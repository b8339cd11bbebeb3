package asteroids

import (
	"flag"
	"testing"

	"github.com/lgasteroids/asteroids/util"
	"github.com/stretchr/testify/assert"
)

type record struct {
	level  TLevel
	msg    string
	caller string
	params util.M
}

type memLogger struct {
	records []record
}

func (l *memLogger) Log(level TLevel, msg, caller string, _ []byte, params util.M) {
	l.records = append(l.records, record{level, msg, caller, params})
}

func TestLog(t *testing.T) {
	l := &memLogger{}
	AddLogger(l)
	defer ClearLoggers()

	Info("hello", util.M{"a": 1})
	Warn2(util.EcNotExist, util.M{"id": "x"})
	Warn(nil)
	Error(util.NewErr(util.EcEmpty, nil))

	assert.Len(t, l.records, 3)
	assert.Equal(t, TInfo, l.records[0].level)
	assert.Equal(t, "hello", l.records[0].msg)
	assert.Contains(t, l.records[0].caller, "asteroids_test.go")
	assert.Equal(t, TWarn, l.records[1].level)
	assert.Equal(t, "not_exist", l.records[1].msg)
	assert.Equal(t, "x", l.records[1].params["id"])
	for _, r := range l.records {
		assert.Contains(t, r.caller, "asteroids_test.go:")
	}
}

func TestLevelMask(t *testing.T) {
	mask := StrLvlToMask(SWarn, SError)
	assert.True(t, util.TestMask(TWarn, mask))
	assert.False(t, util.TestMask(TInfo, mask))
	assert.Equal(t, []TLevel{TError, TFatal}, LvlFrom(TError))
	assert.Equal(t, SDebug, LevelToStr(StrToLevel(SDebug)))
	assert.Equal(t, TInfo, StrToLevel("verbose"))
	assert.Empty(t, LvlFrom(TFatal << 1))
}

func TestParseVar(t *testing.T) {
	t.Setenv("SCREEN_AMOUNT", "7")
	t.Setenv("PORT", "9000")
	AddEnvVar("nscreens", "SCREEN_AMOUNT", 5, "screen amount")
	AddVar("port", 8080, "listen port")
	AddVar("name", "relay", "name")

	SetVarSource(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-port", "7000"})
	defer SetVarSource(flag.CommandLine, nil)
	ParseVar()

	n, ok := GetVar[int]("nscreens")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	port, _ := GetVar[int]("port")
	assert.Equal(t, 7000, port)
	name, _ := GetVar[string]("name")
	assert.Equal(t, "relay", name)
	_, ok = GetVar[string]("port")
	assert.False(t, ok)
}

func TestAgentStats(t *testing.T) {
	s := AgentStats{Sent: 1, SentBytes: 10, Queued: 2}.Add(AgentStats{Sent: 2, Received: 3, ReceivedBytes: 7})
	assert.Equal(t, AgentStats{Sent: 3, SentBytes: 10, Received: 3, ReceivedBytes: 7, Queued: 2}, s)
	assert.Equal(t, uint64(3), s.ToM()["received"])
}
