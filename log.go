package bmff

import (
	"os"

	"github.com/rs/zerolog"
)

// Log is the package-level logger used by Traverse, the strip visitor, and
// the sample-table recovery logic to report declared-size overflow,
// skipped garbage at the end of a container, and corrected sample-table
// entry counts. It defaults to zerolog's JSON output on stderr with a
// timestamp field and no minimum level set on the logger itself.
//
// Parsing LOG_LEVEL/LOG_STYLE environment variables and wiring them to a
// level or console writer is the CLI front-end's job, not this library's;
// callers that want that behavior should build their own zerolog.Logger
// and call SetLogger.
var Log = zerolog.New(os.Stderr).With().Timestamp().Logger()

// SetLogger replaces the package-level logger used by this module.
func SetLogger(l zerolog.Logger) {
	Log = l
}
