package filterstructure

import (
	"log/slog"
)

// Bind resolves and type checks every filter call of a pipeline before any
// of them runs. The first failure is returned and nothing is bound.
func (r *FilterRegistry) Bind(calls []FilterCall, env *Env) ([]*BoundFilter, error) {
	bound := make([]*BoundFilter, 0, len(calls))
	for i, call := range calls {
		filter, ok := r.Lookup(call.Name)
		if !ok {
			slog.Debug("unknown filter", "index", i, "filter_name", call.Name)
			return nil, NameError("`%s`: no such filter (perhaps you can implement it?)", call.Name)
		}

		args, err := CoerceArgs(filter, call.Args)
		if err != nil {
			slog.Debug("filter arguments rejected", "index", i, "filter_name", call.Name, "error", err)
			return nil, err
		}
		if filter.Validate != nil {
			if err := filter.Validate(args); err != nil {
				slog.Debug("filter arguments rejected", "index", i, "filter_name", call.Name, "error", err)
				return nil, AsTypeError(err)
			}
		}

		bound = append(bound, &BoundFilter{filter: filter, args: args, env: env})
	}
	return bound, nil
}

// AsTypeError keeps taxonomy errors and files anything else as a type error.
func AsTypeError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return TypeError("%s", err.Error())
}
