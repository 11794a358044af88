package ethereum

// TierStoreABI is the subset of the tiered 721 delegate store interface read by the indexer.
const TierStoreABI = `[
{"type":"function","name":"maxTierIdOf","stateMutability":"view",
 "inputs":[{"name":"_nft","type":"address"}],
 "outputs":[{"name":"","type":"uint256"}]},
{"type":"function","name":"tiersOf","stateMutability":"view",
 "inputs":[
  {"name":"_nft","type":"address"},
  {"name":"_categories","type":"uint256[]"},
  {"name":"_includeResolvedUri","type":"bool"},
  {"name":"_startingId","type":"uint256"},
  {"name":"_size","type":"uint256"}],
 "outputs":[{"name":"tiers","type":"tuple[]","components":[
  {"name":"id","type":"uint256"},
  {"name":"price","type":"uint256"},
  {"name":"remainingQuantity","type":"uint256"},
  {"name":"initialQuantity","type":"uint256"},
  {"name":"votingUnits","type":"uint256"},
  {"name":"reservedRate","type":"uint256"},
  {"name":"reservedTokenBeneficiary","type":"address"},
  {"name":"encodedIPFSUri","type":"bytes32"},
  {"name":"category","type":"uint256"},
  {"name":"allowManualMint","type":"bool"},
  {"name":"transfersPausable","type":"bool"},
  {"name":"resolvedUri","type":"string"}]}]}
]`

// MetadataABI is the ERC721 metadata extension.
const MetadataABI = `[
{"type":"function","name":"name","stateMutability":"view","inputs":[],
 "outputs":[{"name":"","type":"string"}]},
{"type":"function","name":"symbol","stateMutability":"view","inputs":[],
 "outputs":[{"name":"","type":"string"}]}
]`
