// Package event translates raw contract logs of every supported protocol version into one canonical event record.
// Each contract variant has its own adapter table; the aggregation engine only ever sees the canonical vocabulary.
// Normalizing is a pure transformation: no store reads or writes happen here.
package event

import (
	"errors"
	"math/big"

	"github.com/tarancss/jbx/lib/block/types"
	"github.com/tarancss/jbx/lib/ids"
	"github.com/tarancss/jbx/lib/price"
)

// Kind is the canonical event kind.
type Kind string

// Canonical event kinds.
const (
	KindProjectCreate         Kind = "ProjectCreate"
	KindPay                   Kind = "Pay"
	KindTap                   Kind = "Tap"
	KindRedeem                Kind = "Redeem"
	KindAddToBalance          Kind = "AddToBalance"
	KindMintTokens            Kind = "MintTokens"
	KindPrintReserves         Kind = "PrintReserves"
	KindDistributeToPayoutMod Kind = "DistributeToPayoutMod"
	KindDistributeToTicketMod Kind = "DistributeToTicketMod"
	KindDelegateDeployed      Kind = "DelegateDeployed"
)

// Errors returned by the normalizer.
var (
	ErrUnknownVariant = errors.New("unknown contract variant")
	ErrUnknownEvent   = errors.New("event not handled by variant")
	ErrMissingParam   = errors.New("missing event parameter")
	ErrBadParam       = errors.New("malformed event parameter")
)

// Event is the canonical, version agnostic event record.
type Event struct {
	Kind      Kind
	PV        ids.PV
	ProjectID uint64
	Terminal  string // emitting contract
	Caller    string
	Block     uint64
	LogIndex  uint64
	Timestamp int64
	TxHash    string
	// Rate is the reference-currency rate at Timestamp, filled in before aggregation.
	Rate    price.Rate
	Payload Payload
}

// Convert converts amount with the event's rate.
func (e *Event) Convert(amount *big.Int) price.Converted {
	return e.Rate.Convert(amount)
}

// Payload is the kind specific part of an event.
type Payload interface {
	Kind() Kind
}

// ProjectCreate bootstraps a project.
type ProjectCreate struct {
	Owner       string
	Handle      string
	MetadataURI string
}

// Pay is a payment to a project.
type Pay struct {
	Beneficiary string
	Amount      *big.Int
	Memo        string
}

// Tap is a withdrawal from a project's balance. GovFee plus NetTransfer leave the balance.
type Tap struct {
	FundingCycleID      *big.Int
	Beneficiary         string
	Amount              *big.Int
	Currency            *big.Int
	NetTransfer         *big.Int
	BeneficiaryTransfer *big.Int
	GovFee              *big.Int
}

// Redeem burns Amount tokens of Holder for ReturnAmount of the project's balance.
type Redeem struct {
	Holder       string
	Beneficiary  string
	Amount       *big.Int
	ReturnAmount *big.Int
	Memo         string
}

// AddToBalance adds funds to a project without minting tokens.
type AddToBalance struct {
	Amount *big.Int
	Memo   string
}

// MintTokens mints tokens outside of a payment.
type MintTokens struct {
	Beneficiary string
	Amount      *big.Int
	Memo        string
}

// PrintReserves distributes a project's reserved tokens.
type PrintReserves struct {
	FundingCycleID          *big.Int
	Beneficiary             string
	BeneficiaryTicketAmount *big.Int
	Count                   *big.Int
}

// Mod is a payout or reserved token split.
type Mod struct {
	ProjectID      uint64
	Beneficiary    string
	Allocator      string
	PreferUnstaked bool
}

// DistributeToPayoutMod is one split of a tap.
type DistributeToPayoutMod struct {
	FundingCycleID *big.Int
	Mod            Mod
	ModCut         *big.Int
}

// DistributeToTicketMod is one split of a reserved token distribution.
type DistributeToTicketMod struct {
	FundingCycleID *big.Int
	Mod            Mod
	ModCut         *big.Int
}

// DelegateDeployed announces a new tiered 721 delegate. Template names the data source to register for it.
// CreateCollection is set by deployers whose delegates are indexed as collections; the read-through step fills
// Collection before aggregation.
type DelegateDeployed struct {
	Delegate         string
	GovernanceType   uint8
	Template         string
	CreateCollection bool
	Collection       *Collection
}

// Collection is the read-through view of a delegate at its deployment block.
type Collection struct {
	Name   string
	Symbol string
	Tiers  []types.Tier
}

// Kind implementations.
func (ProjectCreate) Kind() Kind         { return KindProjectCreate }
func (Pay) Kind() Kind                   { return KindPay }
func (Tap) Kind() Kind                   { return KindTap }
func (Redeem) Kind() Kind                { return KindRedeem }
func (AddToBalance) Kind() Kind          { return KindAddToBalance }
func (MintTokens) Kind() Kind            { return KindMintTokens }
func (PrintReserves) Kind() Kind         { return KindPrintReserves }
func (DistributeToPayoutMod) Kind() Kind { return KindDistributeToPayoutMod }
func (DistributeToTicketMod) Kind() Kind { return KindDistributeToTicketMod }
func (*DelegateDeployed) Kind() Kind     { return KindDelegateDeployed }
