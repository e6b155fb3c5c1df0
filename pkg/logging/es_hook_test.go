package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestESHookShipsInfoAndAbove(t *testing.T) {
	hook := NewESHook(nil, "voltshop-logs")

	levels := hook.Levels()
	assert.Contains(t, levels, logrus.InfoLevel)
	assert.Contains(t, levels, logrus.ErrorLevel)
	assert.NotContains(t, levels, logrus.DebugLevel)
	assert.NotContains(t, levels, logrus.TraceLevel)
}

func TestESHookFireWithoutClientIsNoop(t *testing.T) {
	hook := NewESHook(nil, "")
	assert.NoError(t, hook.Fire(&logrus.Entry{}))
}
