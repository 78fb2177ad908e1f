package route

import "github.com/nicolagi/kicadcore/config"

// OptionsFromConfig builds A* Options from the shared configuration's
// via-cost and iteration-ceiling defaults, with diagonal movement on.
func OptionsFromConfig(c *config.C) Options {
	return Options{
		Diagonal:      true,
		ViaCost:       c.ViaCost,
		MaxIterations: c.MaxIterations,
	}
}
