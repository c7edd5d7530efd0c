package domain

// Token describes a token tracked by the price views.
type Token struct {
	Key        string // registry key, also used as chart column name
	Address    string
	Name       string
	Symbol     string
	Decimals   int
	WebsiteURL string
}

// Baseline token key. Premiums are computed relative to this token.
const BaselineKey = "bera"

// BeraToken is the native token; BGT is redeemable 1:1 for it.
var BeraToken = Token{
	Key:        BaselineKey,
	Address:    "0x0000000000000000000000000000000000000000",
	Name:       "BGT (1:1 BERA)",
	Symbol:     "BERA",
	Decimals:   18,
	WebsiteURL: "https://hub.berachain.com/vaults/",
}

// BGTWrappers are the liquid BGT wrappers, in display order.
var BGTWrappers = []Token{
	{
		Key:        "ibgt",
		Address:    "0xac03CABA51e17c86c921E1f6CBFBdC91F8BB2E6b",
		Name:       "iBGT",
		Symbol:     "iBGT",
		Decimals:   18,
		WebsiteURL: "https://infrared.finance/vaults",
	},
	{
		Key:        "lbgt",
		Address:    "0xBaadCC2962417C01Af99fb2B7C75706B9bd6Babe",
		Name:       "LBGT",
		Symbol:     "LBGT",
		Decimals:   18,
		WebsiteURL: "https://www.berapaw.com/vaults",
	},
	{
		Key:        "stbgt",
		Address:    "0x2CeC7f1ac87F5345ced3D6c74BBB61bfAE231Ffb",
		Name:       "stBGT",
		Symbol:     "stBGT",
		Decimals:   18,
		WebsiteURL: "https://bera.stride.zone/",
	},
}

// TrackedTokens returns the baseline followed by all wrappers.
func TrackedTokens() []Token {
	tokens := make([]Token, 0, len(BGTWrappers)+1)
	tokens = append(tokens, BeraToken)
	tokens = append(tokens, BGTWrappers...)
	return tokens
}

// TokenKeys returns the registry keys of tokens, in order.
func TokenKeys(tokens []Token) []string {
	keys := make([]string, len(tokens))
	for i, t := range tokens {
		keys[i] = t.Key
	}
	return keys
}
