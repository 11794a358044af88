package event

import (
	"fmt"

	"github.com/tarancss/jbx/lib/ids"
)

// Data source templates registered for deployed delegates.
const (
	TemplateJB721DelegateToken = "JB721DelegateToken"
	TemplateJB721Delegate3_2   = "JB721Delegate3_2" //nolint:revive,stylecheck // contract name
)

// JBProjects is the v2 project registry.
func JBProjects() Variant {
	return Variant{Source: "jbProjects", PV: ids.PV2, adapters: map[string]adapter{
		"Create": func(r *reader) (uint64, Payload) {
			m := r.sub("metadata")
			p := ProjectCreate{
				Owner:       r.addr("owner"),
				MetadataURI: m.str("content"),
			}
			r.merge(m)

			return r.uint("projectId"), p
		},
	}}
}

// JBETHPaymentTerminal is the v2 ETH terminal. Payout distribution is its tap; redemptions report the reclaimed
// amount.
func JBETHPaymentTerminal() Variant {
	return Variant{Source: "jbETHPaymentTerminal", PV: ids.PV2, adapters: map[string]adapter{
		"Pay": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), Pay{
				Beneficiary: r.addr("beneficiary"),
				Amount:      r.int("amount"),
				Memo:        r.str("memo"),
			}
		},
		"RedeemTokens": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), Redeem{
				Holder:       r.addr("holder"),
				Beneficiary:  r.addr("beneficiary"),
				Amount:       r.int("tokenCount"),
				ReturnAmount: r.int("reclaimedAmount"),
				Memo:         r.str("memo"),
			}
		},
		"AddToBalance": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), AddToBalance{
				Amount: r.int("amount"),
				Memo:   r.str("memo"),
			}
		},
		"DistributePayouts": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), Tap{
				FundingCycleID:      r.int("fundingCycleNumber"),
				Beneficiary:         r.addr("beneficiary"),
				Amount:              r.int("amount"),
				NetTransfer:         r.int("distributedAmount"),
				BeneficiaryTransfer: r.int("beneficiaryDistributionAmount"),
				GovFee:              r.int("fee"),
			}
		},
		"DistributeToPayoutSplit": func(r *reader) (uint64, Payload) {
			s := r.sub("split")
			d := DistributeToPayoutMod{
				FundingCycleID: r.int("fundingCycleNumber"),
				Mod: Mod{
					ProjectID:      s.uint("projectId"),
					Beneficiary:    s.addr("beneficiary"),
					Allocator:      s.addr("allocator"),
					PreferUnstaked: s.bool("preferClaimed"),
				},
				ModCut: r.int("amount"),
			}
			r.merge(s)

			return r.uint("projectId"), d
		},
	}}
}

// JBController is the v2 controller: token minting and reserved token distribution.
func JBController() Variant {
	return Variant{Source: "jbController", PV: ids.PV2, adapters: map[string]adapter{
		"MintTokens": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), MintTokens{
				Beneficiary: r.addr("beneficiary"),
				Amount:      r.int("tokenCount"),
				Memo:        r.str("memo"),
			}
		},
		"DistributeReservedTokens": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), PrintReserves{
				FundingCycleID:          r.int("fundingCycleNumber"),
				Beneficiary:             r.addr("beneficiary"),
				BeneficiaryTicketAmount: r.int("beneficiaryTokenCount"),
				Count:                   r.int("tokenCount"),
			}
		},
		"DistributeToReservedTokenSplit": func(r *reader) (uint64, Payload) {
			s := r.sub("split")
			d := DistributeToTicketMod{
				FundingCycleID: r.int("fundingCycleNumber"),
				Mod: Mod{
					Beneficiary:    s.addr("beneficiary"),
					PreferUnstaked: s.bool("preferClaimed"),
				},
				ModCut: r.int("tokenCount"),
			}
			r.merge(s)

			return r.uint("projectId"), d
		},
	}}
}

func delegateDeployed(template string, collection bool) adapter {
	return func(r *reader) (uint64, Payload) {
		gt := r.uint("governanceType")
		if gt > 255 { //nolint:gomnd // uint8 enum
			r.fail("governanceType", fmt.Errorf("%d out of range", gt))
		}

		return r.uint("projectId"), &DelegateDeployed{
			Delegate:         r.addr("newDelegate"),
			GovernanceType:   uint8(gt),
			Template:         template,
			CreateCollection: collection,
		}
	}
}

// JBTiered721DelegateDeployer registers deployed delegates for transfer tracking only.
func JBTiered721DelegateDeployer() Variant {
	return Variant{Source: "jbTiered721DelegateDeployer", PV: ids.PV2, adapters: map[string]adapter{
		"DelegateDeployed": delegateDeployed(TemplateJB721DelegateToken, false),
	}}
}

// JBTiered721DelegateDeployer3_2 registers deployed delegates and indexes them as collections.
func JBTiered721DelegateDeployer3_2() Variant { //nolint:revive,stylecheck // contract name
	return Variant{Source: "jbTiered721DelegateDeployer3_2", PV: ids.PV2, adapters: map[string]adapter{
		"DelegateDeployed": delegateDeployed(TemplateJB721Delegate3_2, true),
	}}
}
