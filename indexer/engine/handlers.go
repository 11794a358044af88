package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tarancss/jbx/lib/event"
	"github.com/tarancss/jbx/lib/ids"
	"github.com/tarancss/jbx/lib/store"
)

func (a *applier) projectCreate(p event.ProjectCreate) error {
	key := a.projectKey()

	var prj store.Project

	exists, err := a.load(store.KindProject, key, &prj)
	if err != nil {
		return err
	}

	id := a.txKey(false)
	a.record(store.KindProjectCreateEvent, store.ProjectCreateEventKey, id, store.ProjectCreateEvent{
		Attribution: a.attribution(id),
		Owner:       p.Owner,
		Handle:      p.Handle,
		MetadataURI: p.MetadataURI,
	}, a.ev.Terminal)

	if exists {
		a.flag(AnomalyDuplicateCreate, "project %s already exists", key)

		return nil
	}

	a.put(store.KindProject, key, store.Project{
		ID:          key,
		PV:          string(a.ev.PV),
		ProjectID:   a.ev.ProjectID,
		Owner:       p.Owner,
		Handle:      p.Handle,
		MetadataURI: p.MetadataURI,
		CreatedAt:   a.ev.Timestamp,
	})

	proto, err := a.protocol()
	if err != nil {
		return err
	}

	proto.ProjectsCount++
	a.put(store.KindProtocol, proto.ID, *proto)

	return nil
}

func (a *applier) pay(p event.Pay) error {
	prj, err := a.project()
	if err != nil {
		return err
	}

	amount := a.ev.Convert(p.Amount)
	amountUSD := amount.RefOrNil()

	prj.TotalPaid = prj.TotalPaid.Add(p.Amount)
	prj.TotalPaidUSD = addRef(prj.TotalPaidUSD, amount)
	prj.CurrentBalance = prj.CurrentBalance.Add(p.Amount)
	prj.PaymentsCount++
	a.put(store.KindProject, prj.ID, *prj)

	pk := ids.Participant(a.ev.PV, a.ev.ProjectID, p.Beneficiary)
	part := store.Participant{
		ID:        pk,
		PV:        string(a.ev.PV),
		ProjectID: a.ev.ProjectID,
		Project:   prj.ID,
		Wallet:    p.Beneficiary,
	}

	if _, err = a.load(store.KindParticipant, pk, &part); err != nil {
		return err
	}

	part.TotalPaid = part.TotalPaid.Add(p.Amount)
	part.TotalPaidUSD = addRef(part.TotalPaidUSD, amount)
	part.LastPaidTimestamp = a.ev.Timestamp
	a.put(store.KindParticipant, pk, part)

	log, err := a.protocolLog()
	if err != nil {
		return err
	}

	log.VolumePaid = log.VolumePaid.Add(p.Amount)
	log.VolumePaidUSD = addRef(log.VolumePaidUSD, amount)
	log.PaymentsCount++
	a.put(store.KindProtocolLog, log.ID, *log)

	proto, err := a.protocol()
	if err != nil {
		return err
	}

	proto.Volume = proto.Volume.Add(p.Amount)
	proto.VolumeUSD = addRef(proto.VolumeUSD, amount)
	proto.PaymentsCount++
	a.put(store.KindProtocol, proto.ID, *proto)

	id := ids.PayEvent(a.ev.TxHash, a.ev.LogIndex)
	a.record(store.KindPayEvent, store.PayEventKey, id, store.PayEvent{
		Attribution: a.attribution(id),
		Terminal:    a.ev.Terminal,
		Amount:      store.NewInt(p.Amount),
		AmountUSD:   store.IntPtr(amountUSD),
		Beneficiary: p.Beneficiary,
		Note:        p.Memo,
	}, a.ev.Terminal)

	return nil
}

func (a *applier) tap(p event.Tap) error {
	prj, err := a.project()
	if err != nil {
		return err
	}

	out := new(big.Int).Add(orZero(p.GovFee), orZero(p.NetTransfer))
	if prj.CurrentBalance.Big().Cmp(out) < 0 {
		a.flag(AnomalyOverdraw, "tap of %s exceeds balance %s of %s", out, prj.CurrentBalance, prj.ID)
	}

	prj.CurrentBalance = prj.CurrentBalance.Sub(out)
	a.put(store.KindProject, prj.ID, *prj)

	id := a.txKey(false)
	a.record(store.KindTapEvent, store.TapEventKey, id, store.TapEvent{
		Attribution:               a.attribution(id),
		Terminal:                  a.ev.Terminal,
		FundingCycleID:            store.NewInt(p.FundingCycleID),
		Beneficiary:               p.Beneficiary,
		Amount:                    store.NewInt(p.Amount),
		AmountUSD:                 store.IntPtr(a.ev.Convert(p.Amount).RefOrNil()),
		Currency:                  store.NewInt(p.Currency),
		NetTransferAmount:         store.NewInt(p.NetTransfer),
		NetTransferAmountUSD:      store.IntPtr(a.ev.Convert(p.NetTransfer).RefOrNil()),
		BeneficiaryTransferAmount: store.NewInt(p.BeneficiaryTransfer),
		GovFeeAmount:              store.NewInt(p.GovFee),
		GovFeeAmountUSD:           store.IntPtr(a.ev.Convert(p.GovFee).RefOrNil()),
	}, a.ev.Terminal)

	return nil
}

func (a *applier) redeem(p event.Redeem) error {
	prj, err := a.project()
	if err != nil {
		return err
	}

	ret := a.ev.Convert(p.ReturnAmount)

	// a redeem larger than the balance is applied as is and flagged
	if prj.CurrentBalance.Big().Cmp(orZero(p.ReturnAmount)) < 0 {
		a.flag(AnomalyOverdraw, "redeem of %s exceeds balance %s of %s", ret.Amount(), prj.CurrentBalance, prj.ID)
	}

	prj.TotalRedeemed = prj.TotalRedeemed.Add(ret.Amount())
	prj.TotalRedeemedUSD = addRef(prj.TotalRedeemedUSD, ret)
	prj.CurrentBalance = prj.CurrentBalance.Sub(ret.Amount())
	prj.RedeemCount++
	a.put(store.KindProject, prj.ID, *prj)

	log, err := a.protocolLog()
	if err != nil {
		return err
	}

	log.VolumeRedeemed = log.VolumeRedeemed.Add(ret.Amount())
	log.VolumeRedeemedUSD = addRef(log.VolumeRedeemedUSD, ret)
	log.RedeemCount++
	a.put(store.KindProtocolLog, log.ID, *log)

	proto, err := a.protocol()
	if err != nil {
		return err
	}

	proto.VolumeRedeemed = proto.VolumeRedeemed.Add(ret.Amount())
	proto.VolumeRedeemedUSD = addRef(proto.VolumeRedeemedUSD, ret)
	proto.RedeemCount++
	a.put(store.KindProtocol, proto.ID, *proto)

	id := a.txKey(true)
	a.record(store.KindRedeemEvent, store.RedeemEventKey, id, store.RedeemEvent{
		Attribution:     a.attribution(id),
		Terminal:        a.ev.Terminal,
		Holder:          p.Holder,
		Beneficiary:     p.Beneficiary,
		Amount:          store.NewInt(p.Amount),
		ReturnAmount:    store.NewInt(p.ReturnAmount),
		ReturnAmountUSD: store.IntPtr(ret.RefOrNil()),
		Memo:            p.Memo,
	}, a.ev.Terminal)

	return nil
}

func (a *applier) addToBalance(p event.AddToBalance) error {
	prj, err := a.project()
	if err != nil {
		return err
	}

	prj.CurrentBalance = prj.CurrentBalance.Add(p.Amount)
	a.put(store.KindProject, prj.ID, *prj)

	id := a.txKey(true)
	a.record(store.KindAddToBalanceEvent, store.AddToBalanceEventKey, id, store.AddToBalanceEvent{
		Attribution: a.attribution(id),
		Terminal:    a.ev.Terminal,
		Amount:      store.NewInt(p.Amount),
		AmountUSD:   store.IntPtr(a.ev.Convert(p.Amount).RefOrNil()),
		Memo:        p.Memo,
	}, a.ev.Terminal)

	return nil
}

func (a *applier) mintTokens(p event.MintTokens) {
	id := a.txKey(true)
	a.record(store.KindMintTokensEvent, store.MintTokensEventKey, id, store.MintTokensEvent{
		Attribution: a.attribution(id),
		Beneficiary: p.Beneficiary,
		Amount:      store.NewInt(p.Amount),
		Memo:        p.Memo,
	}, a.ev.Terminal)
}

func (a *applier) printReserves(p event.PrintReserves) {
	id := a.txKey(false)
	a.record(store.KindPrintReservesEvent, store.PrintReservesEventKey, id, store.PrintReservesEvent{
		Attribution:             a.attribution(id),
		FundingCycleID:          store.NewInt(p.FundingCycleID),
		Beneficiary:             p.Beneficiary,
		BeneficiaryTicketAmount: store.NewInt(p.BeneficiaryTicketAmount),
		Count:                   store.NewInt(p.Count),
	}, a.ev.Terminal)
}

func (a *applier) distributeToPayoutMod(p event.DistributeToPayoutMod) {
	id := a.txKey(true)
	a.record(store.KindDistributeToPayoutModEvent, store.DistributeToPayoutModEventKey, id,
		store.DistributeToPayoutModEvent{
			Attribution:       a.attribution(id),
			TapEvent:          a.txKey(false),
			FundingCycleID:    store.NewInt(p.FundingCycleID),
			ModProjectID:      p.Mod.ProjectID,
			ModBeneficiary:    p.Mod.Beneficiary,
			ModAllocator:      p.Mod.Allocator,
			ModPreferUnstaked: p.Mod.PreferUnstaked,
			ModCut:            store.NewInt(p.ModCut),
			ModCutUSD:         store.IntPtr(a.ev.Convert(p.ModCut).RefOrNil()),
		}, a.ev.Terminal)
}

func (a *applier) distributeToTicketMod(p event.DistributeToTicketMod) {
	id := a.txKey(true)
	a.record(store.KindDistributeToTicketModEvent, store.DistributeToTicketModEventKey, id,
		store.DistributeToTicketModEvent{
			Attribution:        a.attribution(id),
			PrintReservesEvent: a.txKey(false),
			FundingCycleID:     store.NewInt(p.FundingCycleID),
			ModBeneficiary:     p.Mod.Beneficiary,
			ModPreferUnstaked:  p.Mod.PreferUnstaked,
			ModCut:             store.NewInt(p.ModCut),
		}, a.ev.Terminal)
}

// delegateDeployed stages the collection read through at deployment, if any, and its tiers.
func (a *applier) delegateDeployed(p *event.DelegateDeployed) {
	if p.Collection == nil {
		return
	}

	key := ids.Collection(p.Delegate)
	a.put(store.KindCollection, key, store.Collection{
		ID:             key,
		Address:        p.Delegate,
		PV:             string(a.ev.PV),
		ProjectID:      a.ev.ProjectID,
		Project:        a.projectKey(),
		GovernanceType: p.GovernanceType,
		Name:           p.Collection.Name,
		Symbol:         p.Collection.Symbol,
		CreatedAt:      a.ev.Timestamp,
	})

	for i := range p.Collection.Tiers {
		t := &p.Collection.Tiers[i]
		if t.Id == nil || !t.Id.IsUint64() {
			continue
		}

		tk := ids.Tier(key, t.Id.Uint64())
		a.put(store.KindTier, tk, store.Tier{
			ID:                       tk,
			Collection:               key,
			TierID:                   t.Id.Uint64(),
			Price:                    store.NewInt(t.Price),
			InitialQuantity:          store.NewInt(t.InitialQuantity),
			RemainingQuantity:        store.NewInt(t.RemainingQuantity),
			VotingUnits:              store.NewInt(t.VotingUnits),
			ReservedRate:             store.NewInt(t.ReservedRate),
			ReservedTokenBeneficiary: hexutil.Encode(t.ReservedTokenBeneficiary.Bytes()),
			EncodedIPFSUri:           hexutil.Encode(t.EncodedIPFSUri[:]),
			ResolvedURI:              t.ResolvedUri,
			Category:                 orZero(t.Category).Uint64(),
			AllowManualMint:          t.AllowManualMint,
			TransfersPausable:        t.TransfersPausable,
			CreatedAt:                a.ev.Timestamp,
		})
	}
}

func orZero(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}

	return x
}
