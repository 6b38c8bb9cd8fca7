package main

// Flag selecting single font mode.
const singleFlag = "-a"

type Mode int

const (
	// Render every font under the font directory
	ModeBatch Mode = iota
	// Render the font given as the last argument
	ModeSingle
	// Single mode was requested without a font path
	ModeUsage
)

type Invocation struct {
	Mode     Mode
	FontPath string
}

// ParseArgs interprets the arguments after the program name. -a anywhere
// selects single mode on the last argument; any other argument is ignored.
func ParseArgs(args []string) Invocation {
	single := false
	for _, a := range args {
		if a == singleFlag {
			single = true
			break
		}
	}

	if !single {
		return Invocation{Mode: ModeBatch}
	}

	last := args[len(args)-1]
	if last == "" || last == singleFlag {
		return Invocation{Mode: ModeUsage}
	}

	return Invocation{Mode: ModeSingle, FontPath: last}
}
