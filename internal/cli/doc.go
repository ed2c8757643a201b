// Package cli implements the residencygrid command line: running jobs and
// ad-hoc selections, listing assets and jobs, and serving schedules.
package cli
