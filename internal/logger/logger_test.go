package logger

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/unkn0wn-root/rediskit"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("INFO"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("bogus"))
}

func TestInitWithOutput(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(InfoLevel, &buf)

	Debugf("hidden %d", 1)
	assert.Zero(t, buf.Len())

	Infof("shown %d", 2)
	assert.Contains(t, buf.String(), "shown 2")
}

func TestKitAdapter(t *testing.T) {
	var buf bytes.Buffer
	InitWithOutput(DebugLevel, &buf)

	Kit().Info("key not found", rediskit.Fields{"key": "name"})
	assert.Contains(t, buf.String(), "key not found")
	assert.Contains(t, buf.String(), "key=name")
	assert.Contains(t, buf.String(), "component=rediskit")
}

func TestGetInitializesLazily(t *testing.T) {
	log = nil
	l := Get()
	assert.NotNil(t, l)
	assert.Equal(t, logrus.WarnLevel, l.GetLevel())
}
