// Copyright (c) 2021 Patrick Ascher <development@fullhouse-productions.com>. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package condition

import "strconv"

// PLACEHOLDER is the placeholder used in clauses, independent of the dialect.
const PLACEHOLDER = "?"

// Placeholder of a dialect.
// Numeric placeholders are counted per rendered statement ($1, $2, ...).
type Placeholder struct {
	Numeric bool
	Char    string
	counter int
}

func (p *Placeholder) hasCounter() bool {
	return p.Numeric
}

// placeholder returns the next placeholder.
func (p *Placeholder) placeholder() string {
	if !p.hasCounter() {
		return p.Char
	}
	p.counter++
	return p.Char + strconv.Itoa(p.counter)
}
