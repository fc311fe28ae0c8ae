// Package btm compiles and runs programs for the binary tape machine
// driven by annotated chess moves.
package btm

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Reserved machine states.
const (
	StateInitial = 0
	StateInput   = 1
	StateOutput  = 2
)

// Blank is the empty tape symbol.
const Blank = 0

// RuleKey selects a transition by current state and symbol under the head.
type RuleKey struct {
	State  int
	Symbol int
}

// Action is the right-hand side of a transition. An even Direction moves
// the head right, an odd one moves it left.
type Action struct {
	Next      int
	Write     int
	Direction int
}

// Program is a compiled rule table plus the initial tape inputs.
type Program struct {
	Rules map[RuleKey]Action
	Tape  []int
}

// NewProgram returns an empty program.
func NewProgram() *Program {
	return &Program{Rules: make(map[RuleKey]Action)}
}

// Clone returns a deep copy of the program.
func (p *Program) Clone() *Program {
	return &Program{
		Rules: maps.Clone(p.Rules),
		Tape:  slices.Clone(p.Tape),
	}
}

type ruleJSON struct {
	State     int `json:"state"`
	Symbol    int `json:"symbol"`
	Next      int `json:"next"`
	Write     int `json:"write"`
	Direction int `json:"direction"`
}

type programJSON struct {
	Rules []ruleJSON `json:"rules"`
	Tape  []int      `json:"tape"`
}

// MarshalJSON encodes the rule table as a list sorted by key.
func (p *Program) MarshalJSON() ([]byte, error) {
	keys := slices.SortedFunc(maps.Keys(p.Rules), func(a, b RuleKey) int {
		if a.State != b.State {
			return a.State - b.State
		}
		return a.Symbol - b.Symbol
	})
	out := programJSON{Rules: make([]ruleJSON, 0, len(keys)), Tape: p.Tape}
	for _, k := range keys {
		a := p.Rules[k]
		out.Rules = append(out.Rules, ruleJSON{
			State:     k.State,
			Symbol:    k.Symbol,
			Next:      a.Next,
			Write:     a.Write,
			Direction: a.Direction,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (p *Program) UnmarshalJSON(data []byte) error {
	var in programJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Rules = make(map[RuleKey]Action, len(in.Rules))
	for _, r := range in.Rules {
		key := RuleKey{State: r.State, Symbol: r.Symbol}
		if _, dup := p.Rules[key]; dup {
			return fmt.Errorf("btm: duplicate rule for state %d symbol %d", r.State, r.Symbol)
		}
		p.Rules[key] = Action{Next: r.Next, Write: r.Write, Direction: r.Direction}
	}
	p.Tape = in.Tape
	return nil
}
