package tdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName_InterningAndEquality(t *testing.T) {
	a := NewName("widget.txt")
	b := NewName("widget.txt")
	assert.Equal(t, a, b)
	assert.Equal(t, "widget.txt", a.String())
}

func TestName_ZeroValue(t *testing.T) {
	var n Name
	assert.Equal(t, "", n.String())
}

func TestName_TextMarshaling(t *testing.T) {
	n := NewName("widget.txt")
	data, err := n.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "widget.txt", string(data))

	var decoded Name
	assert.NoError(t, decoded.UnmarshalText([]byte("gadget.txt")))
	assert.Equal(t, "gadget.txt", decoded.String())
}

func TestType_OrDefault(t *testing.T) {
	assert.Equal(t, TypeAuto, Type("").orDefault())
	assert.Equal(t, TypeFile, TypeFile.orDefault())
	assert.Equal(t, TypePhony, TypePhony.orDefault())
}
