package content

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Rarity grades a generated app.
type Rarity string

const (
	Common    Rarity = "COMMON"
	Rare      Rarity = "RARE"
	Legendary Rarity = "LEGENDARY"
)

// Valid reports whether r is one of the known grades.
func (r Rarity) Valid() bool {
	switch r {
	case Common, Rare, Legendary:
		return true
	}
	return false
}

// Record is what the generator produces for a prompt.
type Record struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	CodeSnippet     string   `json:"codeSnippet"`
	ContractSnippet string   `json:"contractSnippet"`
	Rarity          Rarity   `json:"rarity"`
	Attributes      []string `json:"attributes"`
	MarketCap       *float64 `json:"marketCap,omitempty"`
}

// Request is a prompt with an optional reference image.
type Request struct {
	Prompt    string
	Image     []byte
	ImageMIME string
}

var (
	ErrEmptyResponse = errors.New("content: empty model response")
	ErrInvalidRecord = errors.New("content: invalid record")
)

// Validate checks the fields the workspace view relies on.
func (r Record) Validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidRecord)
	case !r.Rarity.Valid():
		return fmt.Errorf("%w: rarity %q", ErrInvalidRecord, r.Rarity)
	case len(r.Attributes) == 0:
		return fmt.Errorf("%w: no attributes", ErrInvalidRecord)
	}
	return nil
}

const fallbackCode = `import { Limetred } from "@limetred/sdk";

export default function App() {
  const { wallet, market } = Limetred.useSession();
  return (
    <Dashboard
      balance={wallet.balance}
      marketCap={market.cap}
      onDeploy={() => Limetred.deploy()}
    />
  );
}`

const fallbackContract = `use anchor_lang::prelude::*;

#[program]
pub mod limetred_app {
    use super::*;

    pub fn initialize(ctx: Context<Initialize>, supply: u64) -> Result<()> {
        let state = &mut ctx.accounts.state;
        state.authority = ctx.accounts.authority.key();
        state.supply = supply;
        state.keys_sold = 0;
        Ok(())
    }
}`

// Fallback is the fixed record used whenever generation is unavailable or fails.
// Only the name varies, taken from the first words of the prompt.
func Fallback(prompt string) Record {
	mc := 24500.0
	return Record{
		Name:            fallbackName(prompt),
		Description:     "An AI-generated on-chain app with a bonding-curve launch, revenue-share keys and a live trading dashboard.",
		CodeSnippet:     fallbackCode,
		ContractSnippet: fallbackContract,
		Rarity:          Rare,
		Attributes:      []string{"Bonding Curve", "Revenue Keys", "Auto Liquidity", "Anti-Snipe"},
		MarketCap:       &mc,
	}
}

func fallbackName(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) == 0 {
		return "Limetred App"
	}
	if len(words) > 3 {
		words = words[:3]
	}
	return cases.Title(language.English).String(strings.Join(words, " "))
}
