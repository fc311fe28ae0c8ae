package btm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
)

// lines is a LineReader over a fixed list of lines.
type lines []string

func (l *lines) ReadLine() (string, error) {
	if len(*l) == 0 {
		return "", io.EOF
	}
	line := (*l)[0]
	*l = (*l)[1:]
	return line, nil
}

func program(tape []int, rules map[RuleKey]Action) *Program {
	p := NewProgram()
	p.Tape = tape
	for k, a := range rules {
		p.Rules[k] = a
	}
	return p
}

func TestStepFollowsRule(t *testing.T) {
	prog := program(nil, map[RuleKey]Action{
		{State: 0, Symbol: 0}: {Next: 1, Write: 0, Direction: 0},
	})
	m := NewMachine(prog, &lines{}, io.Discard)
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.State() != StateInput || m.Index() != 1 || m.Steps() != 1 {
		t.Errorf("state=%d index=%d steps=%d", m.State(), m.Index(), m.Steps())
	}
	if want := []int{0, 0}; !reflect.DeepEqual(m.Tape(), want) {
		t.Errorf("Tape = %v, want %v", m.Tape(), want)
	}
}

func TestHaltedStepIsNoop(t *testing.T) {
	m := NewMachine(NewProgram(), &lines{}, io.Discard)
	if !m.Halted() {
		t.Fatal("Empty program should halt at once")
	}
	if err := m.Step(); err != nil {
		t.Fatal(err)
	}
	if m.Steps() != 0 || m.Index() != 0 {
		t.Errorf("Halted step moved the machine: steps=%d index=%d", m.Steps(), m.Index())
	}
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
}

func TestOutput(t *testing.T) {
	tests := []struct {
		name string
		tape []int
		want string
	}{
		{"text", []int{72, 105, 0}, "Hi"},
		{"unicode", []int{0x263A, 0}, "☺"},
		{"negative", []int{-5, 0}, "-5"},
		{"surrogate", []int{0xD800, 0}, "55296"},
		{"beyond unicode", []int{0x110000, 0}, "1114112"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first := tt.tape[0]
			prog := program(tt.tape, map[RuleKey]Action{
				{State: 0, Symbol: first}: {Next: StateOutput, Write: first, Direction: 1},
			})
			var out strings.Builder
			m := NewMachine(prog, &lines{}, &out)
			if err := m.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
			if m.State() != StateInitial {
				t.Errorf("Expected state 0 after blank, got %d", m.State())
			}
		})
	}
}

func TestInput(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"42", 42},
		{" 7 ", 7},
		{"-3", -3},
		{"Hi", 72 + 105},
		{"", 0},
		{"1x", '1' + 'x'},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			prog := program([]int{9}, map[RuleKey]Action{
				{State: 0, Symbol: 9}: {Next: StateInput, Write: 9, Direction: 1},
			})
			m := NewMachine(prog, &lines{tt.line}, io.Discard)
			if err := m.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			if want := []int{tt.want, 0}; !reflect.DeepEqual(m.Tape(), want) {
				t.Errorf("Tape = %v, want %v", m.Tape(), want)
			}
		})
	}
}

func TestInputEOF(t *testing.T) {
	prog := program(nil, map[RuleKey]Action{
		{State: 0, Symbol: 0}: {Next: StateInput, Write: 0, Direction: 1},
	})
	m := NewMachine(prog, &lines{}, io.Discard)
	if err := m.Run(context.Background()); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestLeftMoveClampsAtZero(t *testing.T) {
	prog := program([]int{1}, map[RuleKey]Action{
		{State: 0, Symbol: 1}: {Next: 3, Write: 2, Direction: 3},
	})
	m := NewMachine(prog, &lines{}, io.Discard)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if m.Index() != 0 || m.State() != 3 || m.Steps() != 1 {
		t.Errorf("index=%d state=%d steps=%d", m.Index(), m.State(), m.Steps())
	}
	if want := []int{2}; !reflect.DeepEqual(m.Tape(), want) {
		t.Errorf("Tape = %v, want %v", m.Tape(), want)
	}
}

func TestReadThenEcho(t *testing.T) {
	// Read a value into cell 0, walk back and print it.
	prog := program([]int{5}, map[RuleKey]Action{
		{State: 0, Symbol: 5}:  {Next: StateInput, Write: 5, Direction: 1},
		{State: 0, Symbol: 0}:  {Next: 3, Write: 0, Direction: 1},
		{State: 3, Symbol: 65}: {Next: StateOutput, Write: 65, Direction: 1},
	})
	var out strings.Builder
	m := NewMachine(prog, &lines{"65"}, &out)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if out.String() != "A" {
		t.Errorf("output = %q, want %q", out.String(), "A")
	}
}

func TestStepLimit(t *testing.T) {
	prog := program(nil, map[RuleKey]Action{
		{State: 0, Symbol: 0}: {Next: 0, Write: 0, Direction: 1},
	})
	m := NewMachine(prog, &lines{}, io.Discard, WithMaxSteps(10))
	if err := m.Run(context.Background()); !errors.Is(err, ErrStepLimit) {
		t.Fatalf("Expected ErrStepLimit, got %v", err)
	}
	if m.Steps() != 10 {
		t.Errorf("Expected 10 steps, got %d", m.Steps())
	}
}

func TestRunCancelled(t *testing.T) {
	prog := program(nil, map[RuleKey]Action{
		{State: 0, Symbol: 0}: {Next: 0, Write: 0, Direction: 1},
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMachine(prog, &lines{}, io.Discard)
	if err := m.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestMachineDoesNotMutateProgram(t *testing.T) {
	prog := program([]int{1}, map[RuleKey]Action{
		{State: 0, Symbol: 1}: {Next: 5, Write: 7, Direction: 0},
	})
	m := NewMachine(prog, &lines{}, io.Discard)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if prog.Tape[0] != 1 {
		t.Errorf("Program tape changed to %v", prog.Tape)
	}
}

func TestProgramJSON(t *testing.T) {
	prog := program([]int{3, 0, 12}, map[RuleKey]Action{
		{State: 2, Symbol: 1}: {Next: 0, Write: 1, Direction: 1},
		{State: 0, Symbol: 5}: {Next: 2, Write: 4, Direction: 0},
	})
	data, err := json.Marshal(prog)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"rules":[{"state":0,"symbol":5,"next":2,"write":4,"direction":0},` +
		`{"state":2,"symbol":1,"next":0,"write":1,"direction":1}],"tape":[3,0,12]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant %s", data, want)
	}

	var back Program
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Rules, prog.Rules) || !reflect.DeepEqual(back.Tape, prog.Tape) {
		t.Errorf("decoded %+v, want %+v", back, prog)
	}

	dup := `{"rules":[{"state":0,"symbol":0},{"state":0,"symbol":0}],"tape":[]}`
	if err := json.Unmarshal([]byte(dup), &back); err == nil {
		t.Error("Expected duplicate rule error")
	}
}
