package models

// AuctionRecord is the UI-ready projection of one on-chain auction. It is
// rebuilt wholesale on every sync pass and never patched incrementally.
type AuctionRecord struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	ImageURL       string `json:"image_url"`
	HighestBidMist uint64 `json:"highest_bid_mist"`
	ReserveMist    uint64 `json:"reserve_mist"`
	// DisplayPrice is the presentation value: the highest bid, or the
	// reserve price while there are no bids yet (highest_bid == 0).
	DisplayPrice  string `json:"display_price"`
	EndTimeMs     int64  `json:"end_time_ms"`
	Active        bool   `json:"active"`
	Seller        string `json:"seller"`
	HighestBidder string `json:"highest_bidder"`
	CharityID     string `json:"charity_id"`
}

// BidHistoryEntry is one entry of an auction's bid log, newest first.
type BidHistoryEntry struct {
	Bidder        string `json:"bidder"`
	AmountMist    uint64 `json:"amount_mist"`
	AmountDisplay string `json:"amount_display"`
	TimestampMs   int64  `json:"timestamp_ms"`
}

// OwnedNFT is a collectible held directly in a wallet.
type OwnedNFT struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
}

// ProfileView groups everything the profile screen shows for one address.
type ProfileView struct {
	Address         string          `json:"address"`
	BalanceMist     uint64          `json:"balance_mist"`
	BalanceDisplay  string          `json:"balance_display"`
	CreatedAuctions []AuctionRecord `json:"created_auctions"`
	LeadingBids     []AuctionRecord `json:"leading_bids"`
	OwnedNFTs       []OwnedNFT      `json:"owned_nfts"`
}
