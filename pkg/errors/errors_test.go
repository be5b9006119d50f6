package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rxn4chemistry/rxn-availability/pkg/errors"
)

func TestNew_CarriesCodeAndMessage(t *testing.T) {
	err := errors.New(errors.ErrCodeInvalidSMILES, "cannot parse")

	assert.Equal(t, errors.ErrCodeInvalidSMILES, err.Code)
	assert.Contains(t, err.Error(), "CHEM_001")
	assert.Contains(t, err.Error(), "cannot parse")
}

func TestNewf_FormatsMessage(t *testing.T) {
	err := errors.Newf(errors.ErrCodeInvalidPattern, "bad pattern %q", "[")
	assert.Contains(t, err.Error(), `bad pattern "["`)
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("underlying failure")
	err := errors.Wrap(cause, errors.ErrCodeSourceLoad, "cannot read list")

	require.NotNil(t, err)
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, errors.IsCode(err, errors.ErrCodeSourceLoad))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, errors.ErrCodeInternal, "ignored"))
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrCodeSourceLoad, "cannot read list").
		WithDetail("path=/tmp/compounds.txt")

	assert.Contains(t, err.Error(), "path=/tmp/compounds.txt")
}

func TestIsCode_WrappedChain(t *testing.T) {
	inner := errors.New(errors.ErrCodeInvalidSMILES, "cannot parse")
	outer := fmt.Errorf("indexing: %w", inner)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeInvalidSMILES))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeSourceLoad))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInvalidSMILES))
}

func TestGetCode(t *testing.T) {
	err := errors.New(errors.ErrCodeResourceMissing, "missing resource")
	assert.Equal(t, errors.ErrCodeResourceMissing, errors.GetCode(err))
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
}

func TestDefaultMessageForCode(t *testing.T) {
	msg := errors.DefaultMessageForCode(errors.ErrCodeInvalidSMILES)
	assert.NotEmpty(t, msg)
}
