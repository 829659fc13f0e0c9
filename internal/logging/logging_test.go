package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	logger, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logger.Formatter)
}

func TestNew_JSON(t *testing.T) {
	var out bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "JSON", Output: &out})
	require.NoError(t, err)

	logger.WithField("plugin", "BinLoader").Debug("BIN file loaded")
	assert.Contains(t, out.String(), `"plugin":"BinLoader"`)
	assert.Contains(t, out.String(), `"msg":"BIN file loaded"`)
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}
