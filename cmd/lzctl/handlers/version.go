package handlers

var version = "dev"

// SetVersion sets the version recorded in run reports.
func SetVersion(v string) {
	version = v
}
