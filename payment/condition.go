package payment

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"io"

	"github.com/MatthewPhinney/five-bells-sender/domain"
)

// ConditionDeriver turns a receipt condition and case metadata into the
// execution and cancellation conditions a transfer is locked under.
// Implementations must be pure: identical inputs always yield identical
// conditions, so a caller-supplied condition can stand in for a derived one.
type ConditionDeriver interface {
	DeriveExecutionCondition(in ConditionInput) domain.Condition
	DeriveCancellationCondition(in ConditionInput) domain.Condition
}

// ConditionInput is the tuple conditions are derived from. CaseID, Notary
// and NotaryPublicKey are empty in universal mode.
type ConditionInput struct {
	ReceiptCondition domain.Condition
	CaseID           string
	Notary           string
	NotaryPublicKey  string
}

// HashDeriver is the default ConditionDeriver. In universal mode the
// execution condition is the receipt condition itself. In atomic mode both
// conditions double-lock under the notary's public key, so that only the
// notary's attestation over the case — not a bare receipt — can trigger
// execution or cancellation. The two purposes hash to disjoint conditions,
// so no witness can satisfy both.
type HashDeriver struct{}

func (HashDeriver) DeriveExecutionCondition(in ConditionInput) domain.Condition {
	if in.CaseID == "" {
		return in.ReceiptCondition
	}
	return hashCondition("execute", in)
}

func (HashDeriver) DeriveCancellationCondition(in ConditionInput) domain.Condition {
	return hashCondition("cancel", in)
}

// hashCondition computes sha256 over a length-prefixed encoding of the
// purpose tag and the input fields. Length prefixes keep the encoding
// injective: no two distinct inputs collapse to the same byte stream.
func hashCondition(purpose string, in ConditionInput) domain.Condition {
	h := sha256.New()
	for _, part := range []string{
		purpose,
		string(in.ReceiptCondition),
		in.CaseID,
		in.Notary,
		in.NotaryPublicKey,
	} {
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(part)))
		h.Write(n[:])
		io.WriteString(h, part)
	}
	return domain.Condition("cc:1:sha256:" + hex.EncodeToString(h.Sum(nil)))
}
