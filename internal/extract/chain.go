package extract

import "fmt"

// Strategy extracts raw product records from one fetched page.
type Strategy interface {
	// Source is the provenance tag stamped on products this strategy yields.
	Source() string
	Extract(page *Page, prof *Profile) ([]Raw, error)
}

// Chain runs strategies in a fixed priority order and stops at the first one
// that yields at least one plausible product.
type Chain struct {
	strategies []Strategy
}

// NewChain builds the default chain: embedded script JSON, then DOM
// selectors, then regex scanning as last resort.
func NewChain() *Chain {
	return &Chain{strategies: []Strategy{
		&ScriptJSONStrategy{},
		&DOMStrategy{},
		&RegexStrategy{},
	}}
}

// Run returns the first strategy's plausible records together with its
// provenance tag. ErrEmpty means every strategy was attempted and none
// produced anything usable.
func (c *Chain) Run(page *Page, prof *Profile) ([]Raw, string, error) {
	for _, s := range c.strategies {
		raws, err := s.Extract(page, prof)
		if err != nil {
			continue
		}
		kept := raws[:0:0]
		for _, r := range raws {
			if plausible(r) {
				kept = append(kept, r)
			}
		}
		if len(kept) > 0 {
			return kept, s.Source(), nil
		}
	}
	return nil, "", fmt.Errorf("%w from %s", ErrEmpty, page.URL)
}
