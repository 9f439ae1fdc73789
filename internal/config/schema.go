package config

// Schema is the set of option keys a task declares. Required keys must be
// present before the task may touch the host; Optional keys are read when
// set and only exist here so that unknown keys can be reported.
type Schema struct {
	Required []string
	Optional []string
}

// Validate checks that every required key is present. It reports all
// missing keys, in declaration order, in a single *ConfigurationError.
func (s Schema) Validate(opts Options) error {
	var missing []string
	seen := make(map[string]bool, len(s.Required))
	for _, key := range s.Required {
		if seen[key] {
			continue
		}
		seen[key] = true
		if !opts.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}
	return nil
}

// Warnings reports option keys the schema does not know about. They never
// fail validation.
func (s Schema) Warnings(opts Options) []ValidationError {
	known := make(map[string]bool, len(s.Required)+len(s.Optional))
	for _, k := range s.Required {
		known[k] = true
	}
	for _, k := range s.Optional {
		known[k] = true
	}

	var warnings []ValidationError
	for _, k := range opts.Keys() {
		if !known[k] {
			warnings = append(warnings, ValidationError{
				Field:    k,
				Message:  "option is not used by this task",
				Severity: "warning",
			})
		}
	}
	return warnings
}

// Extend returns a schema with the keys of extra appended after those of s.
// Keys already declared keep their original position.
func (s Schema) Extend(extra Schema) Schema {
	return Schema{
		Required: appendUnique(s.Required, extra.Required),
		Optional: appendUnique(s.Optional, extra.Optional),
	}
}

// Keys returns required then optional keys.
func (s Schema) Keys() []string {
	return appendUnique(s.Required, s.Optional)
}

func appendUnique(base, extra []string) []string {
	out := append([]string(nil), base...)
	seen := make(map[string]bool, len(out))
	for _, k := range out {
		seen[k] = true
	}
	for _, k := range extra {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
