package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateSourceFormat(t *testing.T) {
	d := ParseDate("1/5/2025")
	require.NotNil(t, d)
	assert.Equal(t, "2025-01-05", *d)

	d = ParseDate("12/25/2025")
	require.NotNil(t, d)
	assert.Equal(t, "2025-12-25", *d)
}

func TestParseDateEmpty(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("   "))
}

func TestParseDateRejectsOtherShapes(t *testing.T) {
	assert.Nil(t, ParseDate("2025-01-05"))
	assert.Nil(t, ParseDate("not-a-date"))
	assert.Nil(t, ParseDate("1/5"))
	assert.Nil(t, ParseDate("1/5/25"))
	assert.Nil(t, ParseDate("111/5/2025"))
}

func TestParseNumber(t *testing.T) {
	n := ParseNumber("123.45")
	require.NotNil(t, n)
	assert.Equal(t, 123.45, *n)

	n = ParseNumber("0")
	require.NotNil(t, n)
	assert.Equal(t, 0.0, *n)
}

func TestParseNumberEmptyOrInvalid(t *testing.T) {
	assert.Nil(t, ParseNumber(""))
	assert.Nil(t, ParseNumber("   "))
	assert.Nil(t, ParseNumber("abc"))
	// the whole field must be numeric
	assert.Nil(t, ParseNumber("123abc"))
}

func TestParseInt(t *testing.T) {
	n := ParseInt("123")
	require.NotNil(t, n)
	assert.Equal(t, 123, *n)

	n = ParseInt("0")
	require.NotNil(t, n)
	assert.Equal(t, 0, *n)
}

func TestParseIntTruncatesTowardZero(t *testing.T) {
	n := ParseInt("3.7")
	require.NotNil(t, n)
	assert.Equal(t, 3, *n)

	n = ParseInt("-3.7")
	require.NotNil(t, n)
	assert.Equal(t, -3, *n)
}

func TestParseIntEmptyOrInvalid(t *testing.T) {
	assert.Nil(t, ParseInt(""))
	assert.Nil(t, ParseInt("   "))
	assert.Nil(t, ParseInt("abc"))
}
