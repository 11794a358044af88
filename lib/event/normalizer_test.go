package event

import (
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarancss/jbx/lib/ids"
)

func raw(t *testing.T, s string) RawEvent {
	t.Helper()

	var r RawEvent
	require.NoError(t, json.Unmarshal([]byte(s), &r))

	return r
}

func TestNormalizeV1Pay(t *testing.T) {
	ev, err := Default().Normalize(raw(t, `{
		"source": "terminalV1_1", "name": "Pay", "address": "0xTERM",
		"params": {"projectId": "7", "beneficiary": "0xAbC", "amount": "1000000000000000000000000000000", "note": "hi"},
		"block": 100, "timestamp": 1600000000, "txHash": "0xAA", "txFrom": "0xFrom", "logIndex": 3
	}`))
	require.NoError(t, err)

	assert.Equal(t, KindPay, ev.Kind)
	assert.Equal(t, ids.PV1, ev.PV)
	assert.Equal(t, uint64(7), ev.ProjectID)
	assert.Equal(t, "0xterm", ev.Terminal)
	assert.Equal(t, "0xfrom", ev.Caller)
	assert.Equal(t, uint64(100), ev.Block)
	assert.Equal(t, uint64(3), ev.LogIndex)
	assert.Equal(t, "0xaa", ev.TxHash)

	p, ok := ev.Payload.(Pay)
	require.True(t, ok)
	assert.Equal(t, "0xabc", p.Beneficiary)
	assert.Equal(t, "1000000000000000000000000000000", p.Amount.String())
	assert.Equal(t, "hi", p.Memo)
}

func TestNormalizeCallerOverride(t *testing.T) {
	ev, err := Default().Normalize(RawEvent{
		Source: "jbETHPaymentTerminal", Name: "Pay", TxFrom: "0xfrom",
		Params: Params{"projectId": "2", "beneficiary": "0xb", "amount": "5", "memo": "", "caller": "0xCALLER"},
	})
	require.NoError(t, err)
	assert.Equal(t, ids.PV2, ev.PV)
	assert.Equal(t, "0xcaller", ev.Caller)
}

func TestNormalizeMapping(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawEvent
		project uint64
		want    Payload
	}{
		{
			name: "v1 redeem uses _projectId",
			raw: RawEvent{Source: "terminalV1", Name: "Redeem", Params: Params{
				"_projectId": "4", "holder": "0xH", "beneficiary": "0xB", "amount": "10", "returnAmount": "0x10",
			}},
			project: 4,
			want:    Redeem{Holder: "0xh", Beneficiary: "0xb", Amount: big.NewInt(10), ReturnAmount: big.NewInt(16)},
		},
		{
			name:    "v1 add to balance uses value",
			raw:     RawEvent{Source: "terminalV1_1", Name: "AddToBalance", Params: Params{"projectId": "1", "value": "9"}},
			project: 1,
			want:    AddToBalance{Amount: big.NewInt(9)},
		},
		{
			name: "v1 premine print is a mint",
			raw: RawEvent{Source: "terminalV1", Name: "PrintPreminedTickets", Params: Params{
				"projectId": "1", "beneficiary": "0xB", "amount": "3",
			}},
			project: 1,
			want:    MintTokens{Beneficiary: "0xb", Amount: big.NewInt(3)},
		},
		{
			name: "v2 payouts are a tap",
			raw: RawEvent{Source: "jbETHPaymentTerminal", Name: "DistributePayouts", Params: Params{
				"projectId": "8", "fundingCycleNumber": "2", "beneficiary": "0xB", "amount": "100",
				"distributedAmount": "95", "fee": "5", "beneficiaryDistributionAmount": "20",
			}},
			project: 8,
			want: Tap{
				FundingCycleID: big.NewInt(2), Beneficiary: "0xb", Amount: big.NewInt(100), Currency: nil,
				NetTransfer: big.NewInt(95), BeneficiaryTransfer: big.NewInt(20), GovFee: big.NewInt(5),
			},
		},
		{
			name: "v2 reserved split is a ticket mod",
			raw: RawEvent{Source: "jbController", Name: "DistributeToReservedTokenSplit", Params: Params{
				"projectId": "8", "fundingCycleNumber": "2", "tokenCount": "50",
				"split": map[string]interface{}{"beneficiary": "0xS", "preferClaimed": true},
			}},
			project: 8,
			want: DistributeToTicketMod{
				FundingCycleID: big.NewInt(2), Mod: Mod{Beneficiary: "0xs", PreferUnstaked: true}, ModCut: big.NewInt(50),
			},
		},
		{
			name: "v2 project create",
			raw: RawEvent{Source: "jbProjects", Name: "Create", Params: Params{
				"projectId": "12", "owner": "0xO", "metadata": map[string]interface{}{"content": "Qm", "domain": "0"},
			}},
			project: 12,
			want:    ProjectCreate{Owner: "0xo", MetadataURI: "Qm"},
		},
		{
			name: "3.2 deployer creates collections",
			raw: RawEvent{Source: "jbTiered721DelegateDeployer3_2", Name: "DelegateDeployed", Params: Params{
				"projectId": "12", "newDelegate": "0xD", "governanceType": "1",
			}},
			project: 12,
			want: &DelegateDeployed{
				Delegate: "0xd", GovernanceType: 1, Template: TemplateJB721Delegate3_2, CreateCollection: true,
			},
		},
		{
			name: "legacy deployer only registers",
			raw: RawEvent{Source: "jbTiered721DelegateDeployer", Name: "DelegateDeployed", Params: Params{
				"projectId": "12", "newDelegate": "0xD", "governanceType": "0",
			}},
			project: 12,
			want:    &DelegateDeployed{Delegate: "0xd", Template: TemplateJB721DelegateToken},
		},
	}

	n := Default()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			ev, err := n.Normalize(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.project, ev.ProjectID)
			assert.Equal(t, tt.want.Kind(), ev.Kind)
			assert.Equal(t, tt.want, ev.Payload)
		})
	}
}

func TestNormalizeErrors(t *testing.T) {
	n := Default()

	tests := []struct {
		name string
		raw  RawEvent
		want error
	}{
		{"unknown variant", RawEvent{Source: "nope", Name: "Pay"}, ErrUnknownVariant},
		{"unknown event", RawEvent{Source: "jbProjects", Name: "Pay"}, ErrUnknownEvent},
		{"missing param", RawEvent{Source: "terminalV1_1", Name: "AddToBalance", Params: Params{"projectId": "1"}}, ErrMissingParam},
		{"bad integer", RawEvent{Source: "terminalV1_1", Name: "AddToBalance", Params: Params{"projectId": "x", "value": "1"}}, ErrBadParam},
		{"negative project", RawEvent{Source: "terminalV1_1", Name: "AddToBalance", Params: Params{"projectId": "-1", "value": "1"}}, ErrBadParam},
		{"negative amount", RawEvent{Source: "jbETHPaymentTerminal", Name: "Pay", Params: Params{"projectId": "2", "beneficiary": "0xb", "amount": "-100", "memo": ""}}, ErrBadParam},
		{"negative number", RawEvent{Source: "terminalV1", Name: "Redeem", Params: Params{"_projectId": "4", "holder": "0xh", "beneficiary": "0xb", "amount": "1", "returnAmount": json.Number("-7")}}, ErrBadParam},
		{"caller not a string", RawEvent{Source: "jbETHPaymentTerminal", Name: "Pay", Params: Params{"projectId": "2", "beneficiary": "0xb", "amount": "100", "memo": "", "caller": json.Number("42")}}, ErrBadParam},
		{"bad tuple", RawEvent{Source: "jbProjects", Name: "Create", Params: Params{"projectId": "1", "owner": "0x", "metadata": "Qm"}}, ErrBadParam},
		{"missing tuple field", RawEvent{Source: "jbProjects", Name: "Create", Params: Params{"projectId": "1", "owner": "0x", "metadata": map[string]interface{}{}}}, ErrMissingParam},
		{"governance type out of range", RawEvent{Source: "jbTiered721DelegateDeployer", Name: "DelegateDeployed", Params: Params{"projectId": "1", "newDelegate": "0x", "governanceType": "256"}}, ErrBadParam},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestHandles(t *testing.T) {
	n := New(TerminalV1_1())
	assert.True(t, n.Handles("terminalV1_1", "PrintTickets"))
	assert.False(t, n.Handles("terminalV1_1", "PrintPreminedTickets"))
	assert.False(t, n.Handles("terminalV1", "Pay"))
	assert.Contains(t, TerminalV1_1().Events(), "DistributeToTicketMod")
}
