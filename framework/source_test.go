package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSourceFixture(c *Context) {
	c.Debug("fixture body marker")
}

func TestFuncSourceReturnsDeclarationText(t *testing.T) {
	src, err := FuncSource(sampleSourceFixture)
	require.NoError(t, err)
	assert.Contains(t, src, "func sampleSourceFixture(c *Context)")
	assert.Contains(t, src, "fixture body marker")
}

func TestFuncSourceRejectsNonFunctions(t *testing.T) {
	_, err := FuncSource(42)
	assert.Error(t, err)

	_, err = FuncSource(nil)
	assert.Error(t, err)
}
