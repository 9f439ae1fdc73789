package wizard

import "github.com/charmbracelet/huh"

// SelectOption is a labelled choice shown by a select field.
type SelectOption struct {
	Value       string
	Label       string
	Description string
}

// BuiltinTemplate selects the nginx site template shipped with hostkit.
const BuiltinTemplate = "builtin"

// TemplateSources lists the nginx template choices. A custom path is asked
// for separately.
var TemplateSources = []SelectOption{
	{Value: BuiltinTemplate, Label: "Built-in", Description: "HTTPS site proxying to gunicorn"},
	{Value: "custom", Label: "Custom", Description: "Path to your own template on this machine"},
}

// WorkerCountOptions are the gunicorn worker counts offered.
var WorkerCountOptions = []huh.Option[int]{
	huh.NewOption("2 workers", 2),
	huh.NewOption("3 workers (default)", 3),
	huh.NewOption("5 workers", 5),
	huh.NewOption("9 workers", 9),
}

// CommonExtraDebs are packages often layered on top of the base deployment.
var CommonExtraDebs = []SelectOption{
	{Value: "redis-server", Label: "redis-server", Description: "Cache and session store"},
	{Value: "memcached", Label: "memcached", Description: "Cache backend"},
	{Value: "libjpeg-dev", Label: "libjpeg-dev", Description: "Pillow image support"},
	{Value: "gettext", Label: "gettext", Description: "Django translations"},
}

// ToOptions converts select options to huh options.
func ToOptions(opts []SelectOption) []huh.Option[string] {
	out := make([]huh.Option[string], 0, len(opts))
	for _, o := range opts {
		out = append(out, huh.NewOption(o.Label+" - "+o.Description, o.Value))
	}
	return out
}
