package model

// NumericErrors is the floating point error reporting mode of the numeric library.
type NumericErrors string

const (
	// NumericErrorsDefault leaves the numeric library untouched.
	NumericErrorsDefault NumericErrors = ""
	// NumericErrorsPrint prints floating point errors.
	NumericErrorsPrint NumericErrors = "print"
	// NumericErrorsRaise raises floating point errors as exceptions.
	NumericErrorsRaise NumericErrors = "raise"
)

// Engine option names produced by the translator.
const (
	FlagVerbose   = "--verbose"
	FlagQuiet     = "--quiet"
	FlagWarnings  = "-W"
	FlagNetwork   = "--network"
	FlagIgnore    = "--ignore"
	FlagDeselect  = "--deselect"
	FlagDurations = "--durations"
	FlagReport    = "--report"
	FlagServer    = "--server"
	FlagNode      = "--node"
	FlagLog       = "--log"
	FlagCIURL     = "--ci-url"
	FlagPRURL     = "--pr-url"
	FlagTutorial  = "--tutorial"
)

// Token is a single engine option, or a positional target when Flag is empty.
type Token struct {
	Flag  string
	Value string
}

// Args renders the token as command line arguments.
func (t Token) Args() []string {
	switch {
	case t.Flag == "":
		return []string{t.Value}
	case t.Value == "":
		return []string{t.Flag}
	default:
		return []string{t.Flag, t.Value}
	}
}

// Invocation is the translated, engine-side equivalent of a legacy command line.
type Invocation struct {
	Tokens        []Token
	Warnings      []string // interpreter warning filters, e.g. "ignore::UserWarning"
	NumericErrors NumericErrors
	// Ignored lists accepted legacy options that have no engine equivalent yet.
	Ignored []string
}
