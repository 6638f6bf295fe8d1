package organization

import "github.com/go-logr/logr"

// Filter returns the units whose name is not in skip.
// Names are compared exactly and case-sensitively.
func Filter(units []Unit, skip []string) []Unit {
	skipSet := make(map[string]struct{}, len(skip))
	for _, name := range skip {
		skipSet[name] = struct{}{}
	}

	kept := make([]Unit, 0, len(units))
	for _, u := range units {
		if _, ok := skipSet[u.Name]; ok {
			continue
		}
		kept = append(kept, u)
	}
	return kept
}

// FilterLogged is Filter with a log line describing the outcome.
func FilterLogged(log logr.Logger, units []Unit, skip []string) []Unit {
	log.Info("Filtering out OUs", "skip", skip)
	kept := Filter(units, skip)
	log.Info("OUs to process after filtering", "count", len(kept), "skipped", len(units)-len(kept))
	return kept
}
