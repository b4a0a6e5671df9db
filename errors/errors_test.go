package errors

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errAlreadyExists = New("already exists")

func TestMarkKeepsIdentity(t *testing.T) {
	err := Mark(Newf("the noun type %q already exists", "Person"), errAlreadyExists)

	assert.Equal(t, `the noun type "Person" already exists`, err.Error())
	assert.True(t, Is(err, errAlreadyExists))
	assert.True(t, Is(Wrap(err, "create noun type"), errAlreadyExists))
	assert.False(t, Is(New("not found"), errAlreadyExists))
	assert.False(t, Is(Mark(New("noun 3 missing"), New("not found")), errAlreadyExists))
}

func TestIsAny(t *testing.T) {
	notFound := New("not found")
	err := Wrapf(notFound, "noun %d", 3)

	assert.True(t, IsAny(err, errAlreadyExists, notFound))
	assert.False(t, IsAny(err, errAlreadyExists))
}

func TestStackTrace(t *testing.T) {
	err := Wrap(New("boom"), "context")

	assert.NotNil(t, GetStack(err))
	assert.Contains(t, fmt.Sprintf("%+v", err), "errors_test.go")
}

func TestReport(t *testing.T) {
	t.Run("nil writes nothing", func(t *testing.T) {
		var buf bytes.Buffer
		Report(&buf, nil, false)
		assert.Empty(t, buf.String())
	})

	t.Run("message and hints", func(t *testing.T) {
		err := WithHint(New("world file world.clwm not found"), "run clwm create first")
		err = WithHint(Wrap(err, "open world"), "or pass --file")

		var buf bytes.Buffer
		Report(&buf, err, false)
		assert.Equal(t,
			"✗ Error: open world: world file world.clwm not found\n"+
				"Hint: run clwm create first\n"+
				"Hint: or pass --file\n",
			buf.String())
	})

	t.Run("repeated hints print once", func(t *testing.T) {
		err := WithHint(WithHint(New("bad"), "same"), "same")

		var buf bytes.Buffer
		Report(&buf, err, false)
		assert.Equal(t, "✗ Error: bad\nHint: same\n", buf.String())
	})

	t.Run("debug adds the stack", func(t *testing.T) {
		var buf bytes.Buffer
		Report(&buf, New("boom"), true)
		require.Contains(t, buf.String(), "✗ Error: boom")
		assert.Contains(t, buf.String(), "errors_test.go")
	})
}
