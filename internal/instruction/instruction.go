// Package instruction models the ordered build and run directives compiled
// from a stack definition.
package instruction

import (
	"errors"
	"fmt"
)

// Kind tags an Instruction.
type Kind string

const (
	KindFrom       Kind = "from"
	KindArgs       Kind = "args"
	KindEnv        Kind = "env"
	KindWorkdir    Kind = "working_dir"
	KindRun        Kind = "run"
	KindEntrypoint Kind = "entrypoint"
)

var (
	// ErrMissingBucket is returned when appending to an args or env
	// instruction that was never allocated.
	ErrMissingBucket = errors.New("instruction bucket not allocated")
	// ErrNotAppendable is returned when appending to a kind other than args or env.
	ErrNotAppendable = errors.New("instruction kind does not accept entries")
)

// Instruction is one directive. Only the field matching Kind is set.
type Instruction struct {
	Kind  Kind
	Image string   // from
	Path  string   // working_dir
	Argv  []string // run, entrypoint
	Args  []string // args, as NAME=value
	Env   Env      // env
}

// From returns a from instruction.
func From(image string) Instruction {
	return Instruction{Kind: KindFrom, Image: image}
}

// Workdir returns a working_dir instruction.
func Workdir(path string) Instruction {
	return Instruction{Kind: KindWorkdir, Path: path}
}

// Run returns a run instruction.
func Run(argv ...string) Instruction {
	return Instruction{Kind: KindRun, Argv: argv}
}

// Entrypoint returns an entrypoint instruction.
func Entrypoint(argv ...string) Instruction {
	return Instruction{Kind: KindEntrypoint, Argv: argv}
}

// Args returns an args instruction holding the given NAME=value entries.
func Args(entries ...string) Instruction {
	return Instruction{Kind: KindArgs, Args: entries}
}

// EnvOf returns an env instruction.
func EnvOf(env Env) Instruction {
	return Instruction{Kind: KindEnv, Env: env}
}

// Data returns the kind-specific payload.
func (i Instruction) Data() any {
	switch i.Kind {
	case KindFrom:
		return i.Image
	case KindWorkdir:
		return i.Path
	case KindRun, KindEntrypoint:
		return append([]string(nil), i.Argv...)
	case KindArgs:
		return append([]string(nil), i.Args...)
	case KindEnv:
		return i.Env.clone()
	default:
		return nil
	}
}

func (i Instruction) clone() Instruction {
	out := i
	if i.Argv != nil {
		out.Argv = append([]string(nil), i.Argv...)
	}
	if i.Args != nil {
		out.Args = append([]string(nil), i.Args...)
	}
	if i.Kind == KindEnv {
		out.Env = i.Env.clone()
	}
	return out
}

// List is an ordered instruction sequence. args and env are buckets: at most
// one of each, located by kind without scanning.
type List struct {
	items   []Instruction
	buckets map[Kind]int
}

// Add appends ins. Adding a second args or env instruction panics, since
// entries must accumulate into the existing bucket.
func (l *List) Add(ins Instruction) {
	if isBucket(ins.Kind) {
		if _, exists := l.buckets[ins.Kind]; exists {
			panic(fmt.Sprintf("instruction: duplicate %s bucket", ins.Kind))
		}
		if l.buckets == nil {
			l.buckets = make(map[Kind]int, 2)
		}
		l.buckets[ins.Kind] = len(l.items)
	}
	l.items = append(l.items, ins.clone())
}

// Allocate adds an empty args or env bucket.
func (l *List) Allocate(kind Kind) error {
	if !isBucket(kind) {
		return fmt.Errorf("%w: %s", ErrNotAppendable, kind)
	}
	l.Add(Instruction{Kind: kind})
	return nil
}

// Index returns the position of the first instruction of kind, or -1.
func (l *List) Index(kind Kind) int {
	if isBucket(kind) {
		if idx, ok := l.buckets[kind]; ok {
			return idx
		}
		return -1
	}
	for i, ins := range l.items {
		if ins.Kind == kind {
			return i
		}
	}
	return -1
}

// AppendTo adds an entry to the args or env bucket. For env, name and value
// are stored as a map entry with last-write-wins semantics; for args the
// entry is recorded as "NAME=value".
func (l *List) AppendTo(kind Kind, name, value string) error {
	if !isBucket(kind) {
		return fmt.Errorf("%w: %s", ErrNotAppendable, kind)
	}
	idx := l.Index(kind)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrMissingBucket, kind)
	}

	switch kind {
	case KindEnv:
		l.items[idx].Env.Set(name, value)
	case KindArgs:
		l.items[idx].Args = append(l.items[idx].Args, name+"="+value)
	}
	return nil
}

// Find returns a copy of the first instruction of kind.
func (l *List) Find(kind Kind) (Instruction, bool) {
	idx := l.Index(kind)
	if idx < 0 {
		return Instruction{}, false
	}
	return l.items[idx].clone(), true
}

// Items returns a copy of the instructions in order.
func (l *List) Items() []Instruction {
	out := make([]Instruction, 0, len(l.items))
	for _, ins := range l.items {
		out = append(out, ins.clone())
	}
	return out
}

// Kinds returns the kind of each instruction in order.
func (l *List) Kinds() []Kind {
	out := make([]Kind, 0, len(l.items))
	for _, ins := range l.items {
		out = append(out, ins.Kind)
	}
	return out
}

// Len returns the number of instructions.
func (l *List) Len() int {
	return len(l.items)
}

// Clone returns a deep copy.
func (l *List) Clone() List {
	var out List
	for _, ins := range l.items {
		out.Add(ins)
	}
	return out
}

func isBucket(kind Kind) bool {
	return kind == KindArgs || kind == KindEnv
}
