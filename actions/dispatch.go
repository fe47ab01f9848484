package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
)

// Names under which the actions are exposed to remote callers.
const (
	ActionCreateConversionJob = "createConversionJob"
	ActionUpdateConversionJob = "updateConversionJob"
	ActionListConversionJobs  = "listConversionJobs"
	ActionGetConversionJob    = "getConversionJob"
	ActionCreatePreset        = "createPreset"
	ActionUpdatePreset        = "updatePreset"
	ActionDeletePreset        = "deletePreset"
	ActionListPresets         = "listPresets"
	ActionGetPreset           = "getPreset"
)

type handlerFunc func(s *Service, ctx context.Context, body []byte) (interface{}, error)

// decodeInto wraps a typed action so it can be called with a raw JSON body.
func decodeInto[T any](call func(s *Service, ctx context.Context, in T) (interface{}, error)) handlerFunc {
	return func(s *Service, ctx context.Context, body []byte) (interface{}, error) {
		var in T
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &in); err != nil {
				return nil, Validation("invalid request body: "+err.Error(), nil)
			}
		}
		return call(s, ctx, in)
	}
}

func noInput(call func(s *Service, ctx context.Context) (interface{}, error)) handlerFunc {
	return func(s *Service, ctx context.Context, _ []byte) (interface{}, error) {
		return call(s, ctx)
	}
}

var registry = map[string]handlerFunc{
	ActionCreateConversionJob: decodeInto(func(s *Service, ctx context.Context, in CreateJobInput) (interface{}, error) {
		return s.CreateConversionJob(ctx, in)
	}),
	ActionUpdateConversionJob: decodeInto(func(s *Service, ctx context.Context, in UpdateJobInput) (interface{}, error) {
		return s.UpdateConversionJob(ctx, in)
	}),
	ActionListConversionJobs: noInput(func(s *Service, ctx context.Context) (interface{}, error) {
		return s.ListConversionJobs(ctx)
	}),
	ActionGetConversionJob: decodeInto(func(s *Service, ctx context.Context, in IDInput) (interface{}, error) {
		return s.GetConversionJob(ctx, in)
	}),
	ActionCreatePreset: decodeInto(func(s *Service, ctx context.Context, in CreatePresetInput) (interface{}, error) {
		return s.CreatePreset(ctx, in)
	}),
	ActionUpdatePreset: decodeInto(func(s *Service, ctx context.Context, in UpdatePresetInput) (interface{}, error) {
		return s.UpdatePreset(ctx, in)
	}),
	ActionDeletePreset: decodeInto(func(s *Service, ctx context.Context, in IDInput) (interface{}, error) {
		return s.DeletePreset(ctx, in)
	}),
	ActionListPresets: noInput(func(s *Service, ctx context.Context) (interface{}, error) {
		return s.ListPresets(ctx)
	}),
	ActionGetPreset: decodeInto(func(s *Service, ctx context.Context, in IDInput) (interface{}, error) {
		return s.GetPreset(ctx, in)
	}),
}

// Names lists the registered action names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named action with a JSON body. The returned value is the
// action's success payload.
func (s *Service) Dispatch(ctx context.Context, name string, body []byte) (interface{}, error) {
	handler, ok := registry[name]
	if !ok {
		return nil, NotFound("action " + name)
	}
	return handler(s, ctx, body)
}
