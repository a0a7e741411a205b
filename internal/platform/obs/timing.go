package obs

import (
	"time"

	"github.com/rs/zerolog"
)

// Time measures one named operation and logs its duration on return.
// Use with a deferred call and a pointer to the named error result:
//
//	defer obs.Time(log, "matrix.Build")(&err)
func Time(log zerolog.Logger, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			log.Error().Str("op", name).Dur("dur", dur).Err(*errp).Msg("operation failed")
			return
		}
		log.Debug().Str("op", name).Dur("dur", dur).Msg("operation done")
	}
}
