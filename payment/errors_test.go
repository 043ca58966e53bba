package payment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	err := NewError(KindValidation, "validateParams", "missing field")
	assert.Equal(t, KindValidation, KindOf(err))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.Equal(t, KindValidation, KindOf(wrapped))

	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestErrorMessageCarriesKindAndStep(t *testing.T) {
	err := WrapError(KindSubmission, "submitTransfer", "ledger rejected transfer", errors.New("boom"))
	msg := err.Error()
	assert.Contains(t, msg, "submitTransfer")
	assert.Contains(t, msg, "Submission")
	assert.Contains(t, msg, "boom")
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(KindTransport, "resolveAccount", "failed to reach account endpoint", cause)
	assert.ErrorIs(t, err, cause)
}

func TestStamp(t *testing.T) {
	require.NoError(t, stamp(nil, "findPath", KindResolution))

	// A payment error keeps its kind; only a missing step is filled in.
	err := stamp(NewError(KindTransport, "", "network down"), "findPath", KindResolution)
	var pe *Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindTransport, pe.Kind)
	assert.Equal(t, "findPath", pe.Op)

	// An already stamped error is left alone.
	err = stamp(NewError(KindSubmission, "submitTransfer", "rejected"), "findPath", KindResolution)
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "submitTransfer", pe.Op)

	// A foreign error is wrapped with the fallback kind.
	err = stamp(errors.New("plain"), "findPath", KindResolution)
	assert.Equal(t, KindResolution, KindOf(err))
}

func TestParamsValidate(t *testing.T) {
	valid := func() *Params {
		p := testParams()
		return p
	}

	require.NoError(t, valid().Validate())

	cases := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"missing source account", func(p *Params) { p.SourceAccount = "" }},
		{"missing destination account", func(p *Params) { p.DestinationAccount = "" }},
		{"missing amount", func(p *Params) { p.Amount = Amount{} }},
		{"missing receipt condition", func(p *Params) { p.ReceiptCondition = "" }},
		{"notary without public key", func(p *Params) { p.Notary = "https://notary.example" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid()
			tc.mutate(p)
			err := p.Validate()
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}

	atomic := valid()
	atomic.Notary = "https://notary.example"
	atomic.NotaryPublicKey = "QD9csySRSCAWTGYp7MFFBLvZYVdMpFyIIbRcrRrWQBM="
	require.NoError(t, atomic.Validate())
	assert.True(t, atomic.Atomic())
}
