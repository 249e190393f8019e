package entity

// Transaction type tags used by the indexer. Only payments and asset
// transfers carry value the reporting engine cares about; every other tag
// (application calls, key registrations, ...) is skipped during parsing.
const (
	TxTypePayment       = "pay"
	TxTypeAssetTransfer = "axfer"
)

// RawTransaction is a transaction as returned by the indexer's
// "transactions by address" endpoint. Inner transactions share the outer
// transaction's round, round-time and identity.
type RawTransaction struct {
	ID             string                `json:"id,omitempty"`
	Group          string                `json:"group,omitempty"`
	TxType         string                `json:"tx-type"`
	Sender         string                `json:"sender"`
	ConfirmedRound uint64                `json:"confirmed-round,omitempty"`
	RoundTime      int64                 `json:"round-time,omitempty"`
	AssetTransfer  *AssetTransferPayload `json:"asset-transfer-transaction,omitempty"`
	Payment        *PaymentPayload       `json:"payment-transaction,omitempty"`
	InnerTxns      []RawTransaction      `json:"inner-txns,omitempty"`
}

// AssetTransferPayload is the nested payload of an "axfer" transaction.
type AssetTransferPayload struct {
	Amount   uint64 `json:"amount"`
	AssetID  uint64 `json:"asset-id"`
	Receiver string `json:"receiver"`
}

// PaymentPayload is the nested payload of a "pay" transaction.
type PaymentPayload struct {
	Amount   uint64 `json:"amount"`
	Receiver string `json:"receiver"`
}

// TransactionPage is a single page of indexer search results.
type TransactionPage struct {
	Transactions []RawTransaction `json:"transactions"`
	NextToken    string           `json:"next-token,omitempty"`
}
