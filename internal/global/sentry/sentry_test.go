package sentry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type codedErr int32

func (c codedErr) Error() string  { return "coded" }
func (c codedErr) GetCode() int32 { return int32(c) }

func TestShouldReport(t *testing.T) {
	assert.True(t, shouldReport(codedErr(50000)))
	assert.True(t, shouldReport(codedErr(50001)))
	assert.False(t, shouldReport(codedErr(40010)))
	assert.False(t, shouldReport(codedErr(40400)))
	assert.False(t, shouldReport(codedErr(40901)))
	assert.True(t, shouldReport(errors.New("plain")))
}
