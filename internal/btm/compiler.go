package btm

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
)

// ErrSyntax reports a command that breaks the BTM command grammar.
var ErrSyntax = errors.New("btm syntax error")

// slot is one rule part: open while bits are still being appended,
// closed once converted to an integer.
type slot interface{ isSlot() }

type openSlot string

type closedSlot int

func (openSlot) isSlot()   {}
func (closedSlot) isSlot() {}

// Compiler turns BTM commands into a Program.
//
// A command is a bit string ending in '!' (rule part) or '?' (input).
// A doubled delimiter continues the open part or input; a single one
// closes it and starts the next. Five closed parts form one rule
// (state, symbol, next state, write symbol, direction).
type Compiler struct {
	prog   *Program
	parts  []slot
	input  string
	logger *slog.Logger
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithCompilerLogger sets the logger for per-command debug output.
func WithCompilerLogger(l *slog.Logger) CompilerOption {
	return func(c *Compiler) { c.logger = l }
}

// NewCompiler returns an empty compiler.
func NewCompiler(opts ...CompilerOption) *Compiler {
	c := &Compiler{
		prog:   NewProgram(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compile processes every command and flushes.
func Compile(commands []string, opts ...CompilerOption) (*Program, error) {
	c := NewCompiler(opts...)
	for _, cmd := range commands {
		if err := c.Process(cmd); err != nil {
			return nil, err
		}
	}
	if err := c.Flush(); err != nil {
		return nil, err
	}
	return c.Program(), nil
}

// Program returns a snapshot of the rules and inputs committed so far.
func (c *Compiler) Program() *Program {
	return c.prog.Clone()
}

// Pending reports how many rule parts are accumulated and whether an
// input is open.
func (c *Compiler) Pending() (parts int, input bool) {
	return len(c.parts), c.input != ""
}

// Process compiles one command.
func (c *Compiler) Process(cmd string) error {
	if err := checkSyntax(cmd); err != nil {
		return err
	}
	start := headerEnd(cmd)
	n := len(cmd)
	doubled := n >= 2 && cmd[n-2] == cmd[n-1]

	var payload string
	if doubled {
		payload = cmd[start : n-2]
	} else {
		payload = cmd[start : n-1]
	}
	if !isBits(payload) {
		return fmt.Errorf("%w: non-binary payload %q in command %s", ErrSyntax, payload, cmd)
	}
	c.logger.Debug("command", "command", cmd, "payload", payload)

	switch {
	case cmd[n-1] == '!' && doubled:
		if len(c.parts) == 0 {
			return fmt.Errorf("%w: no part of rule to continue: %s", ErrSyntax, cmd)
		}
		last, ok := c.parts[len(c.parts)-1].(openSlot)
		if !ok {
			return fmt.Errorf("%w: no open part of rule to continue: %s", ErrSyntax, cmd)
		}
		c.parts[len(c.parts)-1] = last + openSlot(payload)

	case cmd[n-1] == '!':
		if err := c.closePart(); err != nil {
			return fmt.Errorf("%w (command %s)", err, cmd)
		}
		if len(c.parts) == 5 {
			c.commit()
		}
		c.parts = append(c.parts, openSlot(payload))

	case doubled:
		if c.input == "" {
			return fmt.Errorf("%w: no input to continue: %s", ErrSyntax, cmd)
		}
		c.input += payload

	default:
		if err := c.closeInput(); err != nil {
			return fmt.Errorf("%w (command %s)", err, cmd)
		}
		c.input = payload
	}
	return nil
}

// Flush commits a complete pending rule and a pending input. A partial
// rule of fewer than five parts stays pending. Flushing with nothing
// pending is a no-op.
func (c *Compiler) Flush() error {
	if len(c.parts) == 5 {
		if err := c.closePart(); err != nil {
			return err
		}
		c.commit()
	}
	return c.closeInput()
}

// closePart converts the last rule part to an integer.
func (c *Compiler) closePart() error {
	if len(c.parts) == 0 {
		return nil
	}
	last, ok := c.parts[len(c.parts)-1].(openSlot)
	if !ok {
		return nil
	}
	v, err := parseBits(string(last))
	if err != nil {
		return err
	}
	c.parts[len(c.parts)-1] = closedSlot(v)
	return nil
}

// commit stores five closed parts as a rule and resets the accumulator.
func (c *Compiler) commit() {
	var v [5]int
	for i, s := range c.parts {
		v[i] = int(s.(closedSlot))
	}
	key := RuleKey{State: v[0], Symbol: v[1]}
	action := Action{Next: v[2], Write: v[3], Direction: v[4]}
	c.prog.Rules[key] = action
	c.parts = c.parts[:0]
	c.logger.Debug("rule", "state", key.State, "symbol", key.Symbol,
		"next", action.Next, "write", action.Write, "direction", action.Direction)
}

// closeInput appends the open input to the tape.
func (c *Compiler) closeInput() error {
	if c.input == "" {
		return nil
	}
	v, err := parseBits(c.input)
	if err != nil {
		return err
	}
	c.prog.Tape = append(c.prog.Tape, v)
	c.input = ""
	c.logger.Debug("input", "value", v)
	return nil
}

// checkSyntax validates the command shape: a '!' or '?' at the end, a
// bit or delimiter before it, and only bits before that.
func checkSyntax(cmd string) error {
	n := len(cmd)
	if n < 1 || !isDelimiter(cmd[n-1]) {
		return fmt.Errorf("%w: invalid command: %q", ErrSyntax, cmd)
	}
	if n >= 2 && !isDelimiter(cmd[n-2]) && !isBit(cmd[n-2]) {
		return fmt.Errorf("%w: invalid command: %q", ErrSyntax, cmd)
	}
	if n > 2 && !isBits(cmd[:n-2]) {
		return fmt.Errorf("%w: invalid command: %q", ErrSyntax, cmd)
	}
	return nil
}

// headerEnd skips a run of 1s, a run of 0s and one more 1.
func headerEnd(cmd string) int {
	i := 0
	for cmd[i] == '1' {
		i++
	}
	for cmd[i] == '0' {
		i++
	}
	if cmd[i] == '1' {
		i++
	}
	return i
}

func parseBits(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrSyntax)
	}
	v, err := strconv.ParseInt(s, 2, strconv.IntSize)
	if err != nil {
		return 0, fmt.Errorf("%w: value %s: %v", ErrSyntax, s, err)
	}
	return int(v), nil
}

func isBits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isBit(s[i]) {
			return false
		}
	}
	return true
}

func isBit(c byte) bool { return c == '0' || c == '1' }

func isDelimiter(c byte) bool { return c == '!' || c == '?' }
