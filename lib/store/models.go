package store

// Kind names an entity kind. Backends use it as table discriminator or collection name.
type Kind string

// Entity kinds.
const (
	KindProject                    Kind = "Project"
	KindParticipant                Kind = "Participant"
	KindProtocolLog                Kind = "ProtocolLog"
	KindProtocol                   Kind = "Protocol"
	KindPayEvent                   Kind = "PayEvent"
	KindTapEvent                   Kind = "TapEvent"
	KindRedeemEvent                Kind = "RedeemEvent"
	KindMintTokensEvent            Kind = "MintTokensEvent"
	KindPrintReservesEvent         Kind = "PrintReservesEvent"
	KindAddToBalanceEvent          Kind = "AddToBalanceEvent"
	KindDistributeToPayoutModEvent Kind = "DistributeToPayoutModEvent"
	KindDistributeToTicketModEvent Kind = "DistributeToTicketModEvent"
	KindProjectCreateEvent         Kind = "ProjectCreateEvent"
	KindProjectEvent               Kind = "ProjectEvent"
	KindCollection                 Kind = "NFTCollection"
	KindTier                       Kind = "NFTTier"
	KindCheckpoint                 Kind = "Checkpoint"
)

// Kinds lists every entity kind, for backends that prepare one collection or table per kind.
var Kinds = []Kind{ //nolint:gochecknoglobals // fixed list
	KindProject, KindParticipant, KindProtocolLog, KindProtocol, KindPayEvent, KindTapEvent, KindRedeemEvent,
	KindMintTokensEvent, KindPrintReservesEvent, KindAddToBalanceEvent, KindDistributeToPayoutModEvent,
	KindDistributeToTicketModEvent, KindProjectCreateEvent, KindProjectEvent, KindCollection, KindTier,
	KindCheckpoint,
}

// ProjectEventKey tags a timeline entry with the kind of record it points to.
type ProjectEventKey string

// Timeline entry tags.
const (
	PayEventKey                   ProjectEventKey = "payEvent"
	TapEventKey                   ProjectEventKey = "tapEvent"
	RedeemEventKey                ProjectEventKey = "redeemEvent"
	MintTokensEventKey            ProjectEventKey = "mintTokensEvent"
	PrintReservesEventKey         ProjectEventKey = "printReservesEvent"
	AddToBalanceEventKey          ProjectEventKey = "addToBalanceEvent"
	DistributeToPayoutModEventKey ProjectEventKey = "distributeToPayoutModEvent"
	DistributeToTicketModEventKey ProjectEventKey = "distributeToTicketModEvent"
	ProjectCreateEventKey         ProjectEventKey = "projectCreateEvent"
)

// Project is the running-total aggregate of one project in one protocol version.
type Project struct {
	ID               string `json:"id"`
	PV               string `json:"pv"`
	ProjectID        uint64 `json:"projectId"`
	Owner            string `json:"owner,omitempty"`
	Handle           string `json:"handle,omitempty"`
	MetadataURI      string `json:"metadataUri,omitempty"`
	CreatedAt        int64  `json:"createdAt"`
	TotalPaid        Int    `json:"totalPaid"`
	TotalPaidUSD     Int    `json:"totalPaidUSD"`
	TotalRedeemed    Int    `json:"totalRedeemed"`
	TotalRedeemedUSD Int    `json:"totalRedeemedUSD"`
	CurrentBalance   Int    `json:"currentBalance"`
	PaymentsCount    uint64 `json:"paymentsCount"`
	RedeemCount      uint64 `json:"redeemCount"`
}

// Participant is the running total of one beneficiary's payments to a project.
type Participant struct {
	ID                string `json:"id"`
	PV                string `json:"pv"`
	ProjectID         uint64 `json:"projectId"`
	Project           string `json:"project"`
	Wallet            string `json:"wallet"`
	TotalPaid         Int    `json:"totalPaid"`
	TotalPaidUSD      Int    `json:"totalPaidUSD"`
	LastPaidTimestamp int64  `json:"lastPaidTimestamp"`
}

// ProtocolLog aggregates every project of one protocol version.
type ProtocolLog struct {
	ID                string `json:"id"`
	PV                string `json:"pv"`
	VolumePaid        Int    `json:"volumePaid"`
	VolumePaidUSD     Int    `json:"volumePaidUSD"`
	PaymentsCount     uint64 `json:"paymentsCount"`
	VolumeRedeemed    Int    `json:"volumeRedeemed"`
	VolumeRedeemedUSD Int    `json:"volumeRedeemedUSD"`
	RedeemCount       uint64 `json:"redeemCount"`
}

// Protocol aggregates every project of every protocol version.
type Protocol struct {
	ID                string `json:"id"`
	ProjectsCount     uint64 `json:"projectsCount"`
	PaymentsCount     uint64 `json:"paymentsCount"`
	RedeemCount       uint64 `json:"redeemCount"`
	Volume            Int    `json:"volume"`
	VolumeUSD         Int    `json:"volumeUSD"`
	VolumeRedeemed    Int    `json:"volumeRedeemed"`
	VolumeRedeemedUSD Int    `json:"volumeRedeemedUSD"`
}

// Attribution is shared by every per-event record.
type Attribution struct {
	ID        string `json:"id"`
	PV        string `json:"pv"`
	ProjectID uint64 `json:"projectId"`
	Project   string `json:"project"`
	Caller    string `json:"caller"`
	Timestamp int64  `json:"timestamp"`
	TxHash    string `json:"txHash"`
}

// PayEvent records one payment.
type PayEvent struct {
	Attribution
	Terminal    string `json:"terminal"`
	Amount      Int    `json:"amount"`
	AmountUSD   *Int   `json:"amountUSD,omitempty"`
	Beneficiary string `json:"beneficiary"`
	Note        string `json:"note"`
}

// TapEvent records a withdrawal of funds (v1 tap, v2 payout distribution).
type TapEvent struct {
	Attribution
	Terminal                  string `json:"terminal"`
	FundingCycleID            Int    `json:"fundingCycleId"`
	Beneficiary               string `json:"beneficiary"`
	Amount                    Int    `json:"amount"`
	AmountUSD                 *Int   `json:"amountUSD,omitempty"`
	Currency                  Int    `json:"currency"`
	NetTransferAmount         Int    `json:"netTransferAmount"`
	NetTransferAmountUSD      *Int   `json:"netTransferAmountUSD,omitempty"`
	BeneficiaryTransferAmount Int    `json:"beneficiaryTransferAmount"`
	GovFeeAmount              Int    `json:"govFeeAmount"`
	GovFeeAmountUSD           *Int   `json:"govFeeAmountUSD,omitempty"`
}

// RedeemEvent records a token redemption.
type RedeemEvent struct {
	Attribution
	Terminal        string `json:"terminal"`
	Holder          string `json:"holder"`
	Beneficiary     string `json:"beneficiary"`
	Amount          Int    `json:"amount"`
	ReturnAmount    Int    `json:"returnAmount"`
	ReturnAmountUSD *Int   `json:"returnAmountUSD,omitempty"`
	Memo            string `json:"memo,omitempty"`
}

// MintTokensEvent records tokens minted outside of a payment.
type MintTokensEvent struct {
	Attribution
	Beneficiary string `json:"beneficiary"`
	Amount      Int    `json:"amount"`
	Memo        string `json:"memo"`
}

// PrintReservesEvent records the distribution of reserved tokens.
type PrintReservesEvent struct {
	Attribution
	FundingCycleID          Int    `json:"fundingCycleId"`
	Beneficiary             string `json:"beneficiary"`
	BeneficiaryTicketAmount Int    `json:"beneficiaryTicketAmount"`
	Count                   Int    `json:"count"`
}

// AddToBalanceEvent records funds added to a project without minting.
type AddToBalanceEvent struct {
	Attribution
	Terminal  string `json:"terminal"`
	Amount    Int    `json:"amount"`
	AmountUSD *Int   `json:"amountUSD,omitempty"`
	Memo      string `json:"memo,omitempty"`
}

// DistributeToPayoutModEvent records one payout split of a tap. TapEvent is the key of the tap emitted in the same
// transaction.
type DistributeToPayoutModEvent struct {
	Attribution
	TapEvent          string `json:"tapEvent"`
	FundingCycleID    Int    `json:"fundingCycleId"`
	ModProjectID      uint64 `json:"modProjectId"`
	ModBeneficiary    string `json:"modBeneficiary"`
	ModAllocator      string `json:"modAllocator"`
	ModPreferUnstaked bool   `json:"modPreferUnstaked"`
	ModCut            Int    `json:"modCut"`
	ModCutUSD         *Int   `json:"modCutUSD,omitempty"`
}

// DistributeToTicketModEvent records one reserved token split. PrintReservesEvent is the key of the print reserves
// record emitted in the same transaction.
type DistributeToTicketModEvent struct {
	Attribution
	PrintReservesEvent string `json:"printReservesEvent"`
	FundingCycleID     Int    `json:"fundingCycleId"`
	ModBeneficiary     string `json:"modBeneficiary"`
	ModPreferUnstaked  bool   `json:"modPreferUnstaked"`
	ModCut             Int    `json:"modCut"`
}

// ProjectCreateEvent records the creation of a project.
type ProjectCreateEvent struct {
	Attribution
	Owner       string `json:"owner"`
	Handle      string `json:"handle,omitempty"`
	MetadataURI string `json:"metadataUri,omitempty"`
}

// ProjectEvent is a timeline entry linking a project to one of its records.
type ProjectEvent struct {
	ID        string          `json:"id"`
	PV        string          `json:"pv"`
	ProjectID uint64          `json:"projectId"`
	Project   string          `json:"project"`
	Key       ProjectEventKey `json:"key"`
	Event     string          `json:"event"`
	Terminal  string          `json:"terminal,omitempty"`
	Block     uint64          `json:"block"`
	LogIndex  uint64          `json:"logIndex"`
	Timestamp int64           `json:"timestamp"`
	TxHash    string          `json:"txHash"`
}

// Collection describes an NFT issuing delegate contract.
type Collection struct {
	ID             string `json:"id"`
	Address        string `json:"address"`
	PV             string `json:"pv"`
	ProjectID      uint64 `json:"projectId"`
	Project        string `json:"project"`
	GovernanceType uint8  `json:"governanceType"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	CreatedAt      int64  `json:"createdAt"`
}

// Tier is one price tier of a collection as of the collection's creation block.
type Tier struct {
	ID                       string `json:"id"`
	Collection               string `json:"collection"`
	TierID                   uint64 `json:"tierId"`
	Price                    Int    `json:"price"`
	InitialQuantity          Int    `json:"initialQuantity"`
	RemainingQuantity        Int    `json:"remainingQuantity"`
	VotingUnits              Int    `json:"votingUnits"`
	ReservedRate             Int    `json:"reservedRate"`
	ReservedTokenBeneficiary string `json:"reservedTokenBeneficiary"`
	EncodedIPFSUri           string `json:"encodedIPFSUri"`
	ResolvedURI              string `json:"resolvedUri"`
	Category                 uint64 `json:"category"`
	AllowManualMint          bool   `json:"allowManualMint"`
	TransfersPausable        bool   `json:"transfersPausable"`
	CreatedAt                int64  `json:"createdAt"`
}

// CheckpointKey is the key of the indexer's checkpoint.
const CheckpointKey = "indexer"

// Checkpoint is the position of the last processed event.
type Checkpoint struct {
	ID        string `json:"id"`
	Block     uint64 `json:"block"`
	LogIndex  uint64 `json:"logIndex"`
	Processed uint64 `json:"processed"`
}
