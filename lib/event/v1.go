package event

import "github.com/tarancss/jbx/lib/ids"

// ProjectsV1 is the v1 project registry.
func ProjectsV1() Variant {
	return Variant{Source: "projectsV1", PV: ids.PV1, adapters: map[string]adapter{
		"Create": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), ProjectCreate{
				Owner:       r.addr("owner"),
				Handle:      r.str("handle"),
				MetadataURI: r.str("uri"),
			}
		},
	}}
}

// v1Terminal holds the adapters shared by both v1 terminals.
func v1Terminal() map[string]adapter {
	return map[string]adapter{
		"Pay": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), Pay{
				Beneficiary: r.addr("beneficiary"),
				Amount:      r.int("amount"),
				Memo:        r.str("note"),
			}
		},
		"Tap": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), Tap{
				FundingCycleID:      r.int("fundingCycleId"),
				Beneficiary:         r.addr("beneficiary"),
				Amount:              r.int("amount"),
				Currency:            r.int("currency"),
				NetTransfer:         r.int("netTransferAmount"),
				BeneficiaryTransfer: r.int("beneficiaryTransferAmount"),
				GovFee:              r.int("govFeeAmount"),
			}
		},
		"Redeem": func(r *reader) (uint64, Payload) {
			return r.uint("_projectId"), Redeem{
				Holder:       r.addr("holder"),
				Beneficiary:  r.addr("beneficiary"),
				Amount:       r.int("amount"),
				ReturnAmount: r.int("returnAmount"),
			}
		},
		"PrintReserveTickets": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), PrintReserves{
				FundingCycleID:          r.int("fundingCycleId"),
				Beneficiary:             r.addr("beneficiary"),
				BeneficiaryTicketAmount: r.int("beneficiaryTicketAmount"),
				Count:                   r.int("count"),
			}
		},
		"AddToBalance": func(r *reader) (uint64, Payload) {
			return r.uint("projectId"), AddToBalance{Amount: r.int("value")}
		},
		"DistributeToPayoutMod": func(r *reader) (uint64, Payload) {
			m := r.sub("mod")
			d := DistributeToPayoutMod{
				FundingCycleID: r.int("fundingCycleId"),
				Mod: Mod{
					ProjectID:      m.uint("projectId"),
					Beneficiary:    m.addr("beneficiary"),
					Allocator:      m.addr("allocator"),
					PreferUnstaked: m.bool("preferUnstaked"),
				},
				ModCut: r.int("modCut"),
			}
			r.merge(m)

			return r.uint("projectId"), d
		},
		"DistributeToTicketMod": func(r *reader) (uint64, Payload) {
			m := r.sub("mod")
			d := DistributeToTicketMod{
				FundingCycleID: r.int("fundingCycleId"),
				Mod: Mod{
					Beneficiary:    m.addr("beneficiary"),
					PreferUnstaked: m.bool("preferUnstaked"),
				},
				ModCut: r.int("modCut"),
			}
			r.merge(m)

			return r.uint("projectId"), d
		},
	}
}

// TerminalV1 is the first v1 terminal. Its premine print carries no memo.
func TerminalV1() Variant {
	a := v1Terminal()
	a["PrintPreminedTickets"] = func(r *reader) (uint64, Payload) {
		return r.uint("projectId"), MintTokens{
			Beneficiary: r.addr("beneficiary"),
			Amount:      r.int("amount"),
			Memo:        r.optStr("memo"),
		}
	}

	return Variant{Source: "terminalV1", PV: ids.PV1, adapters: a}
}

// TerminalV1_1 is the revised v1 terminal, which prints tickets with a memo.
func TerminalV1_1() Variant { //nolint:revive,stylecheck // contract name
	a := v1Terminal()
	a["PrintTickets"] = func(r *reader) (uint64, Payload) {
		return r.uint("projectId"), MintTokens{
			Beneficiary: r.addr("beneficiary"),
			Amount:      r.int("amount"),
			Memo:        r.str("memo"),
		}
	}

	return Variant{Source: "terminalV1_1", PV: ids.PV1, adapters: a}
}
