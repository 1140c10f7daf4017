package service

import "basecli/internal/modules/cli/domain"

// Proxy lets a dispatcher be driven call-style, as in
//
//	proxy.Call("show", "get")             // alias
//	proxy.Call("set")                     // map to the host method
//	proxy.Call(domain.Pairs{{"cwd", fn}}) // one call per pair, in order
//
// while every Dispatcher method stays reachable through the embedded pointer.
type Proxy struct {
	*Dispatcher
}

func NewProxy(d *Dispatcher) *Proxy {
	return &Proxy{Dispatcher: d}
}

// Unwrap returns the dispatcher behind the proxy.
func (p *Proxy) Unwrap() *Dispatcher {
	return p.Dispatcher
}

// Call registers an alias or a mapping depending on the argument shape and
// always returns the wrapped dispatcher.
func (p *Proxy) Call(args ...any) (*Dispatcher, error) {
	call := domain.Classify(args...)
	switch call.Kind {
	case domain.CallAlias:
		return p.Dispatcher, p.Dispatcher.Alias(call.Key, call.Target)
	case domain.CallMap:
		return p.Dispatcher, p.Dispatcher.Map(call.Key, call.Value)
	case domain.CallBulk:
		for _, pair := range call.Pairs {
			if _, err := p.Call(pair.Key, pair.Value); err != nil {
				return p.Dispatcher, err
			}
		}
		return p.Dispatcher, nil
	default:
		return p.Dispatcher, domain.ErrInvalidKey
	}
}
