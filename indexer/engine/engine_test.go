package engine

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarancss/jbx/lib/block/types"
	"github.com/tarancss/jbx/lib/event"
	"github.com/tarancss/jbx/lib/ids"
	"github.com/tarancss/jbx/lib/price"
	"github.com/tarancss/jbx/lib/store"
	"github.com/tarancss/jbx/lib/store/memory"
)

var two = price.NewRate(decimal.NewFromInt(2))

// fixture applies events one after the other, committing each result.
type fixture struct {
	t   *testing.T
	ctx context.Context
	db  *memory.Memory
	log uint64
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, ctx: context.Background(), db: memory.New()}
}

func (f *fixture) ev(pv ids.PV, project uint64, rate price.Rate, p event.Payload) event.Event {
	f.log++

	return event.Event{
		Kind:      p.Kind(),
		PV:        pv,
		ProjectID: project,
		Terminal:  "0xterminal",
		Caller:    "0xcaller",
		Block:     100,
		LogIndex:  f.log,
		Timestamp: 1650000000 + int64(f.log),
		TxHash:    "0xtx",
		Rate:      rate,
		Payload:   p,
	}
}

func (f *fixture) apply(ev event.Event) *Result {
	f.t.Helper()

	res, err := Apply(f.ctx, f.db, ev)
	require.NoError(f.t, err)
	require.NoError(f.t, f.db.Commit(f.ctx, res.Changes))

	return res
}

func (f *fixture) project(pv ids.PV, id uint64) store.Project {
	f.t.Helper()

	var p store.Project
	require.NoError(f.t, f.db.Load(f.ctx, store.KindProject, ids.Project(pv, id), &p))

	return p
}

func (f *fixture) create(pv ids.PV, id uint64) {
	f.apply(f.ev(pv, id, price.Unavailable(), event.ProjectCreate{Owner: "0xowner"}))
}

func TestPayThenRedeem(t *testing.T) {
	f := newFixture(t)
	f.create(ids.PV2, 7)

	f.apply(f.ev(ids.PV2, 7, two, event.Pay{Beneficiary: "0xb", Amount: big.NewInt(100)}))
	f.apply(f.ev(ids.PV2, 7, two, event.Redeem{Holder: "0xb", Beneficiary: "0xb", Amount: big.NewInt(5), ReturnAmount: big.NewInt(40)}))

	p := f.project(ids.PV2, 7)
	assert.Equal(t, "100", p.TotalPaid.String())
	assert.Equal(t, "200", p.TotalPaidUSD.String())
	assert.Equal(t, "40", p.TotalRedeemed.String())
	assert.Equal(t, "80", p.TotalRedeemedUSD.String())
	assert.Equal(t, "60", p.CurrentBalance.String())
	assert.Equal(t, uint64(1), p.PaymentsCount)
	assert.Equal(t, uint64(1), p.RedeemCount)

	var log store.ProtocolLog
	require.NoError(t, f.db.Load(f.ctx, store.KindProtocolLog, ids.ProtocolLog(ids.PV2), &log))
	assert.Equal(t, uint64(1), log.PaymentsCount)
	assert.Equal(t, uint64(1), log.RedeemCount)
	assert.Equal(t, "100", log.VolumePaid.String())
	assert.Equal(t, "80", log.VolumeRedeemedUSD.String())

	var proto store.Protocol
	require.NoError(t, f.db.Load(f.ctx, store.KindProtocol, ids.ProtocolID, &proto))
	assert.Equal(t, uint64(1), proto.ProjectsCount)
	assert.Equal(t, uint64(1), proto.PaymentsCount)
	assert.Equal(t, "200", proto.VolumeUSD.String())

	assert.Equal(t, 1, f.db.Count(store.KindPayEvent))
	assert.Equal(t, 1, f.db.Count(store.KindRedeemEvent))
	assert.Equal(t, 3, f.db.Count(store.KindProjectEvent))
}

func TestPayMissingProject(t *testing.T) {
	f := newFixture(t)

	_, err := Apply(f.ctx, f.db, f.ev(ids.PV2, 99, two, event.Pay{Beneficiary: "0xb", Amount: big.NewInt(1)}))
	require.ErrorIs(t, err, ErrMissingProject)

	for _, kind := range []event.Payload{
		event.Tap{Amount: big.NewInt(1)},
		event.Redeem{Amount: big.NewInt(1), ReturnAmount: big.NewInt(1)},
		event.AddToBalance{Amount: big.NewInt(1)},
	} {
		_, err = Apply(f.ctx, f.db, f.ev(ids.PV1, 99, two, kind))
		require.ErrorIs(t, err, ErrMissingProject, "%T", kind)
	}

	assert.Empty(t, f.db.Dump())
}

func TestUnavailableRateLeavesUSD(t *testing.T) {
	f := newFixture(t)
	f.create(ids.PV1, 1)

	f.apply(f.ev(ids.PV1, 1, two, event.Pay{Beneficiary: "0xb", Amount: big.NewInt(10)}))
	res := f.apply(f.ev(ids.PV1, 1, price.Unavailable(), event.Pay{Beneficiary: "0xb", Amount: big.NewInt(5)}))

	p := f.project(ids.PV1, 1)
	assert.Equal(t, "15", p.TotalPaid.String())
	assert.Equal(t, "20", p.TotalPaidUSD.String())

	var part store.Participant
	require.NoError(t, f.db.Load(f.ctx, store.KindParticipant, ids.Participant(ids.PV1, 1, "0xB"), &part))
	assert.Equal(t, "15", part.TotalPaid.String(), "first payment counts")
	assert.Equal(t, "20", part.TotalPaidUSD.String())

	// the record carries no USD amount at all
	for _, w := range res.Changes.Writes() {
		if w.Kind == store.KindPayEvent {
			b, err := store.Encode(w.Doc)
			require.NoError(t, err)
			assert.NotContains(t, string(b), "amountUSD")
		}
	}
}

func TestTapAndAddToBalance(t *testing.T) {
	f := newFixture(t)
	f.create(ids.PV1, 3)

	f.apply(f.ev(ids.PV1, 3, two, event.AddToBalance{Amount: big.NewInt(50)}))
	res := f.apply(f.ev(ids.PV1, 3, two, event.Tap{
		Amount: big.NewInt(30), NetTransfer: big.NewInt(28), GovFee: big.NewInt(2), BeneficiaryTransfer: big.NewInt(28),
	}))
	assert.Empty(t, res.Anomalies)
	assert.Equal(t, "20", f.project(ids.PV1, 3).CurrentBalance.String())

	var tap store.TapEvent
	require.NoError(t, f.db.Load(f.ctx, store.KindTapEvent, ids.ProjectTx(ids.PV1, 3, "0xtx", 0, false), &tap))
	require.NotNil(t, tap.GovFeeAmountUSD)
	assert.Equal(t, "4", tap.GovFeeAmountUSD.String())
	assert.Equal(t, "0", tap.Currency.String())
}

func TestOverdrawIsFlagged(t *testing.T) {
	f := newFixture(t)
	f.create(ids.PV2, 4)
	f.apply(f.ev(ids.PV2, 4, two, event.Pay{Beneficiary: "0xb", Amount: big.NewInt(10)}))

	res := f.apply(f.ev(ids.PV2, 4, two, event.Redeem{Amount: big.NewInt(1), ReturnAmount: big.NewInt(15)}))
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyOverdraw, res.Anomalies[0].Kind)
	assert.Equal(t, "-5", f.project(ids.PV2, 4).CurrentBalance.String(), "not clamped")
}

func TestProjectCreateTwice(t *testing.T) {
	f := newFixture(t)
	f.create(ids.PV2, 5)
	f.apply(f.ev(ids.PV2, 5, two, event.Pay{Beneficiary: "0xb", Amount: big.NewInt(10)}))

	res := f.apply(f.ev(ids.PV2, 5, two, event.ProjectCreate{Owner: "0xother"}))
	require.Len(t, res.Anomalies, 1)
	assert.Equal(t, AnomalyDuplicateCreate, res.Anomalies[0].Kind)

	p := f.project(ids.PV2, 5)
	assert.Equal(t, "0xowner", p.Owner)
	assert.Equal(t, "10", p.TotalPaid.String())

	var proto store.Protocol
	require.NoError(t, f.db.Load(f.ctx, store.KindProtocol, ids.ProtocolID, &proto))
	assert.Equal(t, uint64(1), proto.ProjectsCount)
}

func TestInformationalEvents(t *testing.T) {
	f := newFixture(t)

	// no project required
	f.apply(f.ev(ids.PV1, 8, two, event.PrintReserves{Count: big.NewInt(10)}))
	f.apply(f.ev(ids.PV1, 8, two, event.DistributeToTicketMod{Mod: event.Mod{Beneficiary: "0xm"}, ModCut: big.NewInt(4)}))
	f.apply(f.ev(ids.PV1, 8, two, event.DistributeToPayoutMod{Mod: event.Mod{Beneficiary: "0xm"}, ModCut: big.NewInt(3)}))
	f.apply(f.ev(ids.PV1, 8, two, event.MintTokens{Beneficiary: "0xm", Amount: big.NewInt(1)}))

	assert.Zero(t, f.db.Count(store.KindProject))
	assert.Equal(t, 4, f.db.Count(store.KindProjectEvent))

	reserves := ids.ProjectTx(ids.PV1, 8, "0xtx", 0, false)

	var pr store.PrintReservesEvent
	require.NoError(t, f.db.Load(f.ctx, store.KindPrintReservesEvent, reserves, &pr))

	var tm store.DistributeToTicketModEvent
	require.NoError(t, f.db.Load(f.ctx, store.KindDistributeToTicketModEvent, ids.ProjectTx(ids.PV1, 8, "0xtx", 2, true), &tm))
	assert.Equal(t, reserves, tm.PrintReservesEvent)

	var pm store.DistributeToPayoutModEvent
	require.NoError(t, f.db.Load(f.ctx, store.KindDistributeToPayoutModEvent, ids.ProjectTx(ids.PV1, 8, "0xtx", 3, true), &pm))
	assert.Equal(t, ids.ProjectTx(ids.PV1, 8, "0xtx", 0, false), pm.TapEvent)
	require.NotNil(t, pm.ModCutUSD)
	assert.Equal(t, "6", pm.ModCutUSD.String())
}

func TestDelegateDeployed(t *testing.T) {
	f := newFixture(t)

	// registration only
	res, err := Apply(f.ctx, f.db, f.ev(ids.PV2, 12, two, &event.DelegateDeployed{Delegate: "0xd"}))
	require.NoError(t, err)
	assert.Zero(t, res.Changes.Len())

	f.apply(f.ev(ids.PV2, 12, two, &event.DelegateDeployed{
		Delegate:         "0xd",
		GovernanceType:   1,
		CreateCollection: true,
		Collection: &event.Collection{Name: "N", Symbol: "S", Tiers: []types.Tier{
			{Id: big.NewInt(1), Price: big.NewInt(10), Category: big.NewInt(2), ReservedTokenBeneficiary: common.HexToAddress("0xAB")},
			{Id: big.NewInt(2), Price: big.NewInt(20)},
		}},
	}))

	var c store.Collection
	require.NoError(t, f.db.Load(f.ctx, store.KindCollection, ids.Collection("0xd"), &c))
	assert.Equal(t, "N", c.Name)
	assert.Equal(t, "S", c.Symbol)
	assert.Equal(t, ids.Project(ids.PV2, 12), c.Project)
	assert.Equal(t, uint8(1), c.GovernanceType)

	var tier store.Tier
	require.NoError(t, f.db.Load(f.ctx, store.KindTier, ids.Tier("0xd", 1), &tier))
	assert.Equal(t, "10", tier.Price.String())
	assert.Equal(t, uint64(2), tier.Category)
	assert.Equal(t, "0x00000000000000000000000000000000000000ab", tier.ReservedTokenBeneficiary)
	assert.Equal(t, 2, f.db.Count(store.KindTier))
}

func TestUnknownPayload(t *testing.T) {
	f := newFixture(t)

	_, err := Apply(f.ctx, f.db, event.Event{})
	require.ErrorIs(t, err, ErrUnknownEvent)
}
