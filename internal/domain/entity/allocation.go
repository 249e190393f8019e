package entity

// AllocationGroup is a coalesced run of same-asset, same-direction records,
// reported as a single paragraph in the transparency report. Amount is the
// signed sum of the coalesced records, Count their number. End is set only
// when more than one record was coalesced. Sender/Receiver carry a known
// project address when one appeared as counterparty.
type AllocationGroup struct {
	Asset    uint64            `json:"asset"`
	Amount   int64             `json:"amount"`
	Count    int               `json:"count"`
	Start    TransactionEntry  `json:"start"`
	End      *TransactionEntry `json:"end,omitempty"`
	Sender   string            `json:"sender,omitempty"`
	Receiver string            `json:"receiver,omitempty"`
}

// AssetInfo is the unit/decimals metadata needed to render an amount.
type AssetInfo struct {
	Unit     string `json:"unit"`
	Decimals uint   `json:"decimals"`
}
