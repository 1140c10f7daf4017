package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	hclog "github.com/hashicorp/go-hclog"

	"basecli/internal/modules/cli/domain"
	"basecli/internal/modules/cli/dto"
	"basecli/internal/platform/logging"
)

// Handler runs one command with the value it was given.
type Handler func(ctx context.Context, value any) error

// Processor is anything that consumes a token sequence, such as a nested Dispatcher.
type Processor interface {
	Process(ctx context.Context, tokens ...any) (dto.ProcessOutput, error)
}

const (
	kindHost    = "host"
	kindAdapter = "adapter"
	kindNested  = "nested"
)

type command struct {
	kind    string
	handler Handler
}

// Dispatcher maps command names to host methods or adapters and resolves
// aliases before every lookup.
type Dispatcher struct {
	methods  map[string]Handler
	commands map[string]command
	order    []string
	aliases  map[string]string
	logger   hclog.Logger
}

// NewDispatcher returns an empty dispatcher. methods holds the host
// operations that Map can bind by name.
func NewDispatcher(methods map[string]Handler, logger hclog.Logger) *Dispatcher {
	if methods == nil {
		methods = map[string]Handler{}
	}
	return &Dispatcher{
		methods:  methods,
		commands: map[string]command{},
		aliases:  map[string]string{},
		logger:   logging.OrNull(logger),
	}
}

// Alias makes name resolve to target. Re-aliasing a name replaces the
// previous target.
func (d *Dispatcher) Alias(name, target string) error {
	if name == "" || target == "" {
		return fmt.Errorf("%w: alias and target are required", domain.ErrInvalidTarget)
	}
	seen := map[string]struct{}{name: {}}
	for next := target; ; {
		if _, ok := seen[next]; ok {
			return fmt.Errorf("%w: %s -> %s", domain.ErrAliasCycle, name, target)
		}
		seen[next] = struct{}{}
		hop, ok := d.aliases[next]
		if !ok {
			break
		}
		next = hop
	}
	d.aliases[name] = target
	return nil
}

// Map registers name. A nil target binds the host method of the same name;
// a function becomes an adapter and a Processor receives the value as tokens.
func (d *Dispatcher) Map(name string, target any) error {
	if name == "" {
		return fmt.Errorf("%w: command name is required", domain.ErrInvalidTarget)
	}
	var cmd command
	switch t := target.(type) {
	case nil:
		method, ok := d.methods[name]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrNoHostMethod, name)
		}
		cmd = command{kind: kindHost, handler: method}
	case Handler:
		cmd = command{kind: kindAdapter, handler: t}
	case func(context.Context, any) error:
		cmd = command{kind: kindAdapter, handler: t}
	case func(any) error:
		cmd = command{kind: kindAdapter, handler: func(_ context.Context, value any) error { return t(value) }}
	case Processor:
		cmd = command{kind: kindNested, handler: func(ctx context.Context, value any) error {
			_, err := t.Process(ctx, value)
			return err
		}}
	default:
		return fmt.Errorf("%w: %T", domain.ErrInvalidTarget, target)
	}
	if _, exists := d.commands[name]; !exists {
		d.order = append(d.order, name)
	}
	d.commands[name] = cmd
	return nil
}

// Resolve follows the alias relation to a canonical command name.
func (d *Dispatcher) Resolve(name string) string {
	for i := 0; i <= len(d.aliases); i++ {
		target, ok := d.aliases[name]
		if !ok {
			return name
		}
		name = target
	}
	return name
}

// Has reports whether name, after alias resolution, is a registered command.
func (d *Dispatcher) Has(name string) bool {
	_, ok := d.commands[d.Resolve(name)]
	return ok
}

// Commands lists registered commands in registration order.
func (d *Dispatcher) Commands() []dto.CommandInfo {
	byTarget := map[string][]string{}
	for alias := range d.aliases {
		canonical := d.Resolve(alias)
		byTarget[canonical] = append(byTarget[canonical], alias)
	}
	out := make([]dto.CommandInfo, 0, len(d.order))
	for _, name := range d.order {
		aliases := byTarget[name]
		sort.Strings(aliases)
		out = append(out, dto.CommandInfo{Name: name, Kind: d.commands[name].kind, Aliases: aliases})
	}
	return out
}

// Aliases returns a copy of the alias relation.
func (d *Dispatcher) Aliases() map[string]string {
	out := make(map[string]string, len(d.aliases))
	for k, v := range d.aliases {
		out[k] = v
	}
	return out
}

// Dispatch runs a single command pair.
func (d *Dispatcher) Dispatch(ctx context.Context, pair domain.Pair) (bool, error) {
	name := d.Resolve(pair.Key)
	cmd, ok := d.commands[name]
	if !ok {
		d.logger.Debug("skip unknown command", "command", pair.Key)
		return false, nil
	}
	d.logger.Debug("dispatch", "command", name, "alias", pair.Key != name)
	return true, cmd.handler(ctx, pair.Value)
}

// Process groups CLI-style tokens into command pairs and dispatches them
// left to right. The first failing command stops the batch.
//
// Accepted shapes: "--key=value", "--key value", a bare registered command
// followed by its value, "key=value" for a registered key, and key/value
// objects. A command opened without a value always takes the next non-flag
// token as its value, and while a "--key" command is open only another
// "--flag" starts a new one. Comma continuations of a split token extend the
// open value, which undoes comma splitting of multi-value arguments.
func (d *Dispatcher) Process(ctx context.Context, tokens ...any) (dto.ProcessOutput, error) {
	out := dto.ProcessOutput{}
	seq := make([]token, 0, len(tokens))
	for _, tok := range tokens {
		seq = append(seq, splitTokens(tok)...)
	}

	var pending *domain.Pair
	var fragments []any
	var bare bool
	run := func(pair domain.Pair) error {
		ok, err := d.Dispatch(ctx, pair)
		if ok {
			out.Dispatched = append(out.Dispatched, d.Resolve(pair.Key))
		} else {
			out.Skipped = append(out.Skipped, pair.Key)
		}
		return err
	}
	flush := func() error {
		if pending == nil {
			return nil
		}
		pair := *pending
		pending = nil
		switch len(fragments) {
		case 0:
			pair.Value = true
		case 1:
			pair.Value = fragments[0]
		default:
			parts := make([]string, 0, len(fragments))
			for _, f := range fragments {
				parts = append(parts, domain.Stringify(f))
			}
			pair.Value = strings.Join(parts, ",")
		}
		fragments = nil
		return run(pair)
	}
	open := func(key string, value any, hasValue, bareForm bool) error {
		if err := flush(); err != nil {
			return err
		}
		pending = &domain.Pair{Key: key}
		bare = bareForm
		if hasValue {
			fragments = []any{value}
		}
		return nil
	}
	// takesValue reports whether a non-flag token belongs to the open command.
	takesValue := func(tok token) bool {
		if pending == nil {
			return false
		}
		return tok.continued || len(fragments) == 0 || !bare
	}

	for _, tok := range seq {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if pairs, ok := domain.AsPairs(tok.value); ok {
			if err := flush(); err != nil {
				return out, err
			}
			for _, pair := range pairs {
				if err := run(pair); err != nil {
					return out, err
				}
			}
			continue
		}
		s, isString := tok.value.(string)
		if !isString {
			if pending != nil {
				fragments = append(fragments, tok.value)
			} else {
				out.Skipped = append(out.Skipped, domain.Stringify(tok.value))
			}
			continue
		}
		switch {
		case isFlag(s) && !(tok.continued && pending != nil):
			key, value, found := strings.Cut(strings.TrimLeft(s, "-"), "=")
			if err := open(key, value, found, false); err != nil {
				return out, err
			}
		case takesValue(tok):
			fragments = append(fragments, s)
		case d.Has(s):
			if err := open(s, nil, false, true); err != nil {
				return out, err
			}
		case isAssignment(d, s):
			key, value, _ := strings.Cut(s, "=")
			if err := open(key, value, true, true); err != nil {
				return out, err
			}
		case pending != nil:
			fragments = append(fragments, s)
		default:
			if strings.TrimSpace(s) != "" {
				d.logger.Debug("skip stray token", "token", s)
				out.Skipped = append(out.Skipped, s)
			}
		}
	}
	if err := flush(); err != nil {
		return out, err
	}
	return out, nil
}

// token is one normalized element; continued marks the second and later
// pieces of a comma-split string.
type token struct {
	value     any
	continued bool
}

func splitTokens(v any) []token {
	items := []any{v}
	if _, ok := v.(string); !ok {
		items = domain.Arrayify(v)
	}
	var out []token
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			out = append(out, token{value: item})
			continue
		}
		for i, part := range domain.Arrayify(s) {
			out = append(out, token{value: part, continued: i > 0})
		}
	}
	return out
}

func isAssignment(d *Dispatcher, s string) bool {
	key, _, found := strings.Cut(s, "=")
	return found && d.Has(key)
}

func isFlag(s string) bool {
	return len(s) > 1 && s[0] == '-' && strings.TrimLeft(s, "-") != ""
}
